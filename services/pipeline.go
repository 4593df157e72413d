package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrValidation marks a malformed trip request, rejected before any external
// call is made. Handlers surface it as a client error.
var ErrValidation = errors.New("invalid trip request")

var travelStyles = map[string]bool{
	"budget": true, "balanced": true, "luxury": true,
}

var accommodationPrefs = map[string]bool{
	"hostel": true, "hotel_budget": true, "hotel_standard": true,
	"eco_lodge": true, "airbnb": true,
}

var transportPrefs = map[string]bool{
	"train": true, "bus": true, "car": true, "mixed": true,
}

// TripRequest is the validated input to trip generation.
type TripRequest struct {
	Destination       string   `json:"destination"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	Budget            float64  `json:"budget"`
	Interests         []string `json:"interests"`
	TravelStyle       string   `json:"travel_style"`
	AccommodationPref string   `json:"accommodation_preference"`
	TransportPref     string   `json:"transport_preference"`
	// Optional one-way distance to the destination in km. When above 100 km
	// a round-trip long-haul leg is added to the footprint.
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// Validate checks the request against the input contract and returns the
// parsed date range.
func (r *TripRequest) Validate(now time.Time) (start, end time.Time, err error) {
	if r.Destination == "" {
		return start, end, fmt.Errorf("%w: destination is required", ErrValidation)
	}

	start, err = time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("%w: invalid start_date, use YYYY-MM-DD", ErrValidation)
	}
	end, err = time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("%w: invalid end_date, use YYYY-MM-DD", ErrValidation)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("%w: end_date must not be before start_date", ErrValidation)
	}
	// Parsed dates are UTC midnights, so the "today" boundary is taken in
	// UTC as well. Starting today is not a future trip.
	if !start.After(now.UTC().Truncate(24 * time.Hour)) {
		return start, end, fmt.Errorf("%w: start_date must be in the future", ErrValidation)
	}
	if r.Budget <= 0 {
		return start, end, fmt.Errorf("%w: budget must be positive", ErrValidation)
	}
	if len(r.Interests) == 0 {
		return start, end, fmt.Errorf("%w: at least one interest is required", ErrValidation)
	}
	if !travelStyles[r.TravelStyle] {
		return start, end, fmt.Errorf("%w: unknown travel_style %q", ErrValidation, r.TravelStyle)
	}
	if !accommodationPrefs[r.AccommodationPref] {
		return start, end, fmt.Errorf("%w: unknown accommodation_preference %q", ErrValidation, r.AccommodationPref)
	}
	if !transportPrefs[r.TransportPref] {
		return start, end, fmt.Errorf("%w: unknown transport_preference %q", ErrValidation, r.TransportPref)
	}

	return start, end, nil
}

// Stage statuses. Degraded means the stage substituted fallback data and the
// pipeline continued.
type StageStatus string

const (
	StageSucceeded StageStatus = "succeeded"
	StageDegraded  StageStatus = "degraded"
	StageFailed    StageStatus = "failed"
)

// StageOutcome records how one pipeline stage finished; the full list is kept
// on the result so degradation is observable instead of silently logged away.
type StageOutcome struct {
	Stage  string      `json:"stage"`
	Status StageStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// GeneratedTrip is the composed output of one pipeline run, persisted as a
// single trip row.
type GeneratedTrip struct {
	Itinerary       []Day          `json:"itinerary"`
	Location        *Location      `json:"location"`
	TotalCarbonKg   float64        `json:"total_carbon_kg"`
	TotalCost       float64        `json:"total_cost"`
	GreenScore      int            `json:"green_score"`
	CarbonBreakdown Breakdown      `json:"carbon_breakdown"`
	Stages          []StageOutcome `json:"stages"`
}

// Planner runs the itinerary generation pipeline: geocode, draft, normalize,
// score, aggregate. Strictly sequential, no retries — provider failures
// trigger immediate fallback.
type Planner struct {
	drafter  AiDrafter
	geocoder Geocoder
	calc     *Calculator
	now      func() time.Time
}

// NewPlanner wires a planner from its three collaborators.
func NewPlanner(drafter AiDrafter, geocoder Geocoder, calc *Calculator) *Planner {
	return &Planner{
		drafter:  drafter,
		geocoder: geocoder,
		calc:     calc,
		now:      time.Now,
	}
}

// GenerateTrip runs the five pipeline stages for one request. Validation
// failures return ErrValidation before any external call; provider failures
// degrade; normalization or scoring failures abort (no trip is produced).
func (p *Planner) GenerateTrip(ctx context.Context, req TripRequest) (*GeneratedTrip, error) {
	start, end, err := req.Validate(p.now())
	if err != nil {
		return nil, err
	}
	days := int(end.Sub(start).Hours()/24) + 1 // inclusive
	nights := days - 1

	var stages []StageOutcome

	// Stage 1: geocode. Never fatal.
	loc, err := p.geocoder.Geocode(ctx, req.Destination)
	if err != nil {
		log.Printf("⚠️  geocoding %q failed: %v — using placeholder location", req.Destination, err)
		loc = PlaceholderLocation(req.Destination)
		stages = append(stages, StageOutcome{"geocode", StageDegraded, err.Error()})
	} else {
		stages = append(stages, StageOutcome{Stage: "geocode", Status: StageSucceeded})
	}

	// Stage 2: AI draft, stage 3: normalize. A failed draft substitutes the
	// deterministic template so generation always terminates with a usable
	// itinerary.
	var itinerary []Day
	draft, err := p.drafter.DraftItinerary(ctx, DraftRequest{
		Destination:       req.Destination,
		StartDate:         start,
		Days:              days,
		Budget:            req.Budget,
		Interests:         req.Interests,
		TravelStyle:       req.TravelStyle,
		AccommodationPref: req.AccommodationPref,
		TransportPref:     req.TransportPref,
	})
	if err != nil {
		log.Printf("⚠️  AI draft failed: %v — using template itinerary", err)
		itinerary = FallbackItinerary(req.Destination, start, days)
		stages = append(stages,
			StageOutcome{"draft", StageDegraded, err.Error()},
			StageOutcome{Stage: "normalize", Status: StageSucceeded})
	} else {
		stages = append(stages, StageOutcome{Stage: "draft", Status: StageSucceeded})

		itinerary, err = NormalizeItinerary(draft, req.Destination, start, days)
		if err != nil {
			stages = append(stages, StageOutcome{"normalize", StageFailed, err.Error()})
			return nil, fmt.Errorf("normalize itinerary: %w", err)
		}
		stages = append(stages, StageOutcome{Stage: "normalize", Status: StageSucceeded})
	}

	// Stage 4: emissions + green score.
	breakdown := p.calc.TripEmissions(ctx, TripEmissionsInput{
		AccommodationType: req.AccommodationPref,
		Nights:            nights,
		DistanceKm:        req.DistanceKm,
		Itinerary:         itinerary,
	})

	// Backfill per-activity carbon where the draft omitted it, so every
	// activity carries its own carbon_kg figure.
	for d := range itinerary {
		for a := range itinerary[d].Activities {
			act := &itinerary[d].Activities[a]
			if act.CarbonKg == 0 {
				act.CarbonKg = round2(p.calc.ActivityEmissions(ctx, act.Type, 1))
			}
		}
	}

	score := GreenScore(breakdown.Total, days)
	stages = append(stages, StageOutcome{Stage: "score", Status: StageSucceeded})

	// Stage 5: cost aggregation. Sums both per-activity costs and per-day
	// daily_cost; when a draft populates both from the same source the total
	// double-counts. Kept as-is until product decides otherwise.
	var totalCost float64
	for _, day := range itinerary {
		totalCost += day.DailyCost
		for _, act := range day.Activities {
			totalCost += act.EstimatedCost
		}
	}
	stages = append(stages, StageOutcome{Stage: "aggregate", Status: StageSucceeded})

	return &GeneratedTrip{
		Itinerary:       itinerary,
		Location:        loc,
		TotalCarbonKg:   breakdown.Total,
		TotalCost:       round2(totalCost),
		GreenScore:      score,
		CarbonBreakdown: breakdown,
		Stages:          stages,
	}, nil
}
