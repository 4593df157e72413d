package services

import (
	"context"
	"fmt"
	"strings"
)

// Factor categories
const (
	CategoryTransport     = "transport"
	CategoryAccommodation = "accommodation"
	CategoryActivity      = "activity"
)

// Hard-coded last-resort constants, used when even the fallback sub-category
// has no active factor.
const (
	DefaultCarKgPerKm      = 0.171 // car_average
	DefaultHotelKgPerNight = 20.9  // hotel_standard
	DefaultActivityKg      = 1.5   // per occurrence
)

// FactorStore resolves the active emission factor (kg CO2 per unit) for a
// (category, sub_category) pair. At most one factor per pair is active.
type FactorStore interface {
	ActiveFactor(ctx context.Context, category, subCategory string) (float64, error)
}

// ErrFactorNotFound is returned by FactorStore implementations when no active
// factor exists for the requested pair.
var ErrFactorNotFound = fmt.Errorf("emission factor not found")

// transportAliases canonicalizes user-facing transport modes to factor
// sub-categories.
var transportAliases = map[string]string{
	"car":     "car_average",
	"driving": "car_average",
	"taxi":    "car_average",
	"flight":  "flight_medium_haul",
	"plane":   "flight_medium_haul",
	"train":   "train",
	"rail":    "train",
	"bus":     "bus",
	"coach":   "bus",
	"metro":   "metro",
	"subway":  "metro",
	"tram":    "metro",
	"bike":    "bicycle",
	"bicycle": "bicycle",
	"cycling": "bicycle",
	"walk":    "walking",
	"walking": "walking",
	"foot":    "walking",
	"ferry":   "ferry",
	"boat":    "ferry",
}

// activityAliases canonicalizes itinerary activity types to factor
// sub-categories.
var activityAliases = map[string]string{
	"museum":        "museum_indoor",
	"gallery":       "museum_indoor",
	"culture":       "museum_indoor",
	"sightseeing":   "sightseeing_walk",
	"walking_tour":  "sightseeing_walk",
	"nature":        "nature_outdoor",
	"hiking":        "nature_outdoor",
	"park":          "nature_outdoor",
	"beach":         "nature_outdoor",
	"food":          "restaurant_meal",
	"restaurant":    "restaurant_meal",
	"dining":        "restaurant_meal",
	"shopping":      "shopping",
	"nightlife":     "entertainment",
	"entertainment": "entertainment",
	"show":          "entertainment",
	"sport":         "sport_activity",
	"adventure":     "sport_activity",
	"boat_tour":     "boat_tour",
	"theme_park":    "theme_park",
}

// TransportSubCategory resolves a free-text transport mode to a factor
// sub-category. Unknown modes map to themselves so a matching custom factor
// still wins before the car_average fallback kicks in.
func TransportSubCategory(mode string) string {
	key := strings.ToLower(strings.TrimSpace(mode))
	if sub, ok := transportAliases[key]; ok {
		return sub
	}
	return key
}

// ActivitySubCategory resolves an itinerary activity type to a factor
// sub-category.
func ActivitySubCategory(activityType string) string {
	key := strings.ToLower(strings.TrimSpace(activityType))
	if sub, ok := activityAliases[key]; ok {
		return sub
	}
	return key
}

// DefaultFactors is the seed factor table: kg CO2 per unit for each
// (category, sub_category). Sources: UK DEFRA 2023 conversion factors and
// the Sustainable Hospitality Alliance hotel footprint data.
var DefaultFactors = map[string]map[string]float64{
	CategoryTransport: {
		"car_average":        0.171, // per km
		"car_electric":       0.053,
		"flight_short_haul":  0.255,
		"flight_medium_haul": 0.195,
		"flight_long_haul":   0.150,
		"train":              0.041,
		"bus":                0.105,
		"metro":              0.031,
		"ferry":              0.115,
		"bicycle":            0.0,
		"walking":            0.0,
	},
	CategoryAccommodation: {
		"hostel":         6.2, // per night
		"hotel_budget":   12.5,
		"hotel_standard": 20.9,
		"hotel_luxury":   43.1,
		"eco_lodge":      4.8,
		"airbnb":         9.4,
		"camping":        2.1,
	},
	CategoryActivity: {
		"museum_indoor":    1.2, // per visit
		"sightseeing_walk": 0.1,
		"nature_outdoor":   0.3,
		"restaurant_meal":  3.6,
		"shopping":         2.4,
		"entertainment":    2.8,
		"sport_activity":   1.8,
		"boat_tour":        8.5,
		"theme_park":       6.0,
	},
}

// StaticFactorStore serves factors from an in-memory table. It backs tests
// and acts as the no-database store.
type StaticFactorStore struct {
	factors map[string]map[string]float64
}

// NewStaticFactorStore returns a store over the default factor table.
func NewStaticFactorStore() *StaticFactorStore {
	return &StaticFactorStore{factors: DefaultFactors}
}

// NewStaticFactorStoreWith returns a store over a caller-supplied table.
func NewStaticFactorStoreWith(factors map[string]map[string]float64) *StaticFactorStore {
	return &StaticFactorStore{factors: factors}
}

func (s *StaticFactorStore) ActiveFactor(_ context.Context, category, subCategory string) (float64, error) {
	if subs, ok := s.factors[category]; ok {
		if f, ok := subs[subCategory]; ok {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %s/%s", ErrFactorNotFound, category, subCategory)
}
