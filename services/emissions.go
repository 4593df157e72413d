package services

import (
	"context"
	"log"
	"math"
)

// Breakdown is a trip's carbon footprint split by source, all kg CO2.
// Each field is rounded to 2 decimals on its own; Total is rounded from the
// unrounded sum, so the parts may disagree with Total in the last decimal.
type Breakdown struct {
	Transport     float64 `json:"transport"`
	Accommodation float64 `json:"accommodation"`
	Activities    float64 `json:"activities"`
	Total         float64 `json:"total"`
}

// TripEmissionsInput carries the physical quantities needed to compute a
// trip's footprint.
type TripEmissionsInput struct {
	AccommodationType string
	Nights            int
	DistanceKm        float64 // one-way distance to the destination, 0 if unknown
	Itinerary         []Day
}

// Calculator converts physical trip quantities into kg CO2 using the factor
// table. Lookup failures never propagate: every method degrades to a
// documented default and logs a warning.
type Calculator struct {
	factors FactorStore
}

// NewCalculator creates a Calculator over the given factor store.
func NewCalculator(factors FactorStore) *Calculator {
	return &Calculator{factors: factors}
}

// TransportEmissions returns kg CO2 for travelling distanceKm by mode.
// Unknown modes fall back to the car_average factor. Non-positive distance
// returns 0.
func (c *Calculator) TransportEmissions(ctx context.Context, mode string, distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm * c.transportFactor(ctx, TransportSubCategory(mode))
}

// AccommodationEmissions returns kg CO2 for nights spent in the given
// accommodation type. The type keys the factor table directly (no alias map),
// falling back to hotel_standard when missing.
func (c *Calculator) AccommodationEmissions(ctx context.Context, accommodationType string, nights int) float64 {
	if nights <= 0 {
		return 0
	}

	factor, err := c.factors.ActiveFactor(ctx, CategoryAccommodation, accommodationType)
	if err != nil {
		log.Printf("⚠️  no active factor for accommodation/%s — using hotel_standard fallback", accommodationType)
		factor, err = c.factors.ActiveFactor(ctx, CategoryAccommodation, "hotel_standard")
		if err != nil {
			factor = DefaultHotelKgPerNight
		}
	}
	return float64(nights) * factor
}

// ActivityEmissions returns kg CO2 for count occurrences of an activity type.
// Missing factors fall back to a flat per-occurrence constant.
func (c *Calculator) ActivityEmissions(ctx context.Context, activityType string, count int) float64 {
	if count <= 0 {
		return 0
	}

	factor, err := c.factors.ActiveFactor(ctx, CategoryActivity, ActivitySubCategory(activityType))
	if err != nil {
		log.Printf("⚠️  no active factor for activity/%s — using %.1f kg default", activityType, DefaultActivityKg)
		factor = DefaultActivityKg
	}
	return float64(count) * factor
}

// TripEmissions aggregates a full trip: accommodation over the night count,
// per-activity emissions, per-leg transport between activities, and a
// round-trip long-distance leg when the destination is more than 100 km away
// (flight-class factor picked by distance band).
func (c *Calculator) TripEmissions(ctx context.Context, in TripEmissionsInput) Breakdown {
	accommodation := c.AccommodationEmissions(ctx, in.AccommodationType, in.Nights)

	var transport, activities float64
	for _, day := range in.Itinerary {
		for _, act := range day.Activities {
			activities += c.ActivityEmissions(ctx, act.Type, 1)
			if act.TransportMode != "" && act.TransportKm > 0 {
				transport += c.TransportEmissions(ctx, act.TransportMode, act.TransportKm)
			}
		}
	}

	if in.DistanceKm > 100 {
		transport += 2 * in.DistanceKm * c.transportFactor(ctx, flightSubCategory(in.DistanceKm))
	}

	return Breakdown{
		Transport:     round2(transport),
		Accommodation: round2(accommodation),
		Activities:    round2(activities),
		Total:         round2(transport + accommodation + activities),
	}
}

// transportFactor resolves a transport sub-category to its kg/km factor,
// degrading to car_average and finally to a hard-coded constant.
func (c *Calculator) transportFactor(ctx context.Context, subCategory string) float64 {
	factor, err := c.factors.ActiveFactor(ctx, CategoryTransport, subCategory)
	if err == nil {
		return factor
	}

	log.Printf("⚠️  no active factor for transport/%s — using car_average fallback", subCategory)
	factor, err = c.factors.ActiveFactor(ctx, CategoryTransport, "car_average")
	if err != nil {
		return DefaultCarKgPerKm
	}
	return factor
}

// flightSubCategory picks the flight class for a one-way distance:
// short haul below 500 km, long haul above 3700 km, medium haul in between.
func flightSubCategory(distanceKm float64) string {
	switch {
	case distanceKm < 500:
		return "flight_short_haul"
	case distanceKm <= 3700:
		return "flight_medium_haul"
	default:
		return "flight_long_haul"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
