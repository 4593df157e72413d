package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDrafter struct {
	draft *DraftItinerary
	err   error
	calls int
}

func (f *fakeDrafter) DraftItinerary(_ context.Context, _ DraftRequest) (*DraftItinerary, error) {
	f.calls++
	return f.draft, f.err
}

type fakeGeocoder struct {
	loc   *Location
	err   error
	calls int
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (*Location, error) {
	f.calls++
	return f.loc, f.err
}

// testPlanner pins "now" to early 2026 so fixed request dates stay in the
// future.
func testPlanner(drafter AiDrafter, geocoder Geocoder) *Planner {
	p := NewPlanner(drafter, geocoder, testCalculator())
	p.now = func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func validRequest() TripRequest {
	return TripRequest{
		Destination:       "Paris, France",
		StartDate:         "2026-06-01",
		EndDate:           "2026-06-07",
		Budget:            2000,
		Interests:         []string{"culture", "food"},
		TravelStyle:       "balanced",
		AccommodationPref: "hotel_standard",
		TransportPref:     "mixed",
	}
}

func parisLocation() *Location {
	return &Location{Lat: 48.8566, Lng: 2.3522, FormattedAddress: "Paris, Île-de-France, France"}
}

func TestGenerateTrip_Validation(t *testing.T) {
	drafter := &fakeDrafter{}
	geocoder := &fakeGeocoder{loc: parisLocation()}
	planner := testPlanner(drafter, geocoder)

	mutations := []struct {
		name   string
		mutate func(*TripRequest)
	}{
		{"missing destination", func(r *TripRequest) { r.Destination = "" }},
		{"bad start date", func(r *TripRequest) { r.StartDate = "June 1st" }},
		{"bad end date", func(r *TripRequest) { r.EndDate = "" }},
		{"end before start", func(r *TripRequest) { r.StartDate = "2026-06-07"; r.EndDate = "2026-06-01" }},
		{"start in the past", func(r *TripRequest) { r.StartDate = "2025-06-01"; r.EndDate = "2025-06-07" }},
		{"start today", func(r *TripRequest) { r.StartDate = "2026-01-15"; r.EndDate = "2026-01-16" }},
		{"zero budget", func(r *TripRequest) { r.Budget = 0 }},
		{"negative budget", func(r *TripRequest) { r.Budget = -10 }},
		{"no interests", func(r *TripRequest) { r.Interests = nil }},
		{"unknown travel style", func(r *TripRequest) { r.TravelStyle = "extravagant" }},
		{"unknown accommodation", func(r *TripRequest) { r.AccommodationPref = "castle" }},
		{"unknown transport", func(r *TripRequest) { r.TransportPref = "teleporter" }},
	}

	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := planner.GenerateTrip(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// rejected before any external call
	assert.Zero(t, drafter.calls)
	assert.Zero(t, geocoder.calls)
}

// The future check uses the UTC calendar day, so a server clock in a zone
// ahead of UTC must not reject tomorrow's UTC date.
func TestTripRequestValidate_FutureBoundaryIsUTC(t *testing.T) {
	req := validRequest()
	req.StartDate = "2026-01-16"
	req.EndDate = "2026-01-17"

	// 10:00 on Jan 16 in UTC+13 is still 21:00 on Jan 15 UTC
	now := time.Date(2026, 1, 16, 10, 0, 0, 0, time.FixedZone("UTC+13", 13*3600))
	_, _, err := req.Validate(now)
	assert.NoError(t, err)

	req.StartDate = "2026-01-15"
	req.EndDate = "2026-01-16"
	_, _, err = req.Validate(now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerateTrip_AIFailureUsesTemplate(t *testing.T) {
	drafter := &fakeDrafter{err: fmt.Errorf("model timeout")}
	geocoder := &fakeGeocoder{loc: parisLocation()}
	planner := testPlanner(drafter, geocoder)

	trip, err := planner.GenerateTrip(context.Background(), validRequest())
	require.NoError(t, err)

	// full date range covered, every day usable
	require.Len(t, trip.Itinerary, 7)
	for i, day := range trip.Itinerary {
		assert.Equal(t, i+1, day.Day)
		assert.NotEmpty(t, day.Activities)
	}
	assert.Equal(t, "2026-06-01", trip.Itinerary[0].Date)
	assert.Equal(t, "2026-06-07", trip.Itinerary[6].Date)

	// degradation is observable on the result
	var draftStage *StageOutcome
	for i := range trip.Stages {
		if trip.Stages[i].Stage == "draft" {
			draftStage = &trip.Stages[i]
		}
	}
	require.NotNil(t, draftStage)
	assert.Equal(t, StageDegraded, draftStage.Status)
	assert.Contains(t, draftStage.Reason, "model timeout")
}

func TestGenerateTrip_GeocodeFailureUsesPlaceholder(t *testing.T) {
	drafter := &fakeDrafter{err: fmt.Errorf("no key")}
	geocoder := &fakeGeocoder{err: fmt.Errorf("provider down")}
	planner := testPlanner(drafter, geocoder)

	trip, err := planner.GenerateTrip(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, trip.Location)
	assert.Zero(t, trip.Location.Lat)
	assert.Zero(t, trip.Location.Lng)
	assert.Equal(t, "Paris, France", trip.Location.FormattedAddress)
	assert.Equal(t, StageDegraded, trip.Stages[0].Status)
}

func TestGenerateTrip_EndToEnd(t *testing.T) {
	museumCost := 20.0
	drafter := &fakeDrafter{draft: &DraftItinerary{
		Days: []DraftDay{
			{
				Theme: "Arrival",
				Activities: []DraftActivity{
					{Title: "Musée d'Orsay", Type: "museum", EstimatedCost: &museumCost,
						TransportMode: "metro", TransportKm: 3},
					{Name: "Dinner in Le Marais", Category: "food"},
				},
				DailyCost: 60,
			},
		},
	}}
	geocoder := &fakeGeocoder{loc: parisLocation()}
	planner := testPlanner(drafter, geocoder)

	req := validRequest()
	trip, err := planner.GenerateTrip(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, trip.Itinerary, 7)
	for i, day := range trip.Itinerary {
		assert.Equal(t, i+1, day.Day)
		assert.Equal(t, time.Date(2026, 6, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), day.Date)
		assert.NotEmpty(t, day.Activities)
	}

	assert.GreaterOrEqual(t, trip.GreenScore, 0)
	assert.LessOrEqual(t, trip.GreenScore, 100)
	assert.GreaterOrEqual(t, trip.TotalCarbonKg, 0.0)
	assert.GreaterOrEqual(t, trip.TotalCost, 0.0)
	assert.Equal(t, parisLocation(), trip.Location)

	// 6 nights of hotel_standard are in the breakdown
	assert.InDelta(t, 6*20.9, trip.CarbonBreakdown.Accommodation, 1e-9)
	assert.Equal(t, trip.CarbonBreakdown.Total, trip.TotalCarbonKg)

	// every activity ends up with its own carbon figure
	for _, day := range trip.Itinerary {
		for _, act := range day.Activities {
			if act.Type != "sightseeing" && act.TransportMode != "walking" {
				assert.Greater(t, act.CarbonKg, 0.0, "activity %s", act.Title)
			}
		}
	}

	for _, stage := range trip.Stages {
		assert.Equal(t, StageSucceeded, stage.Status, "stage %s", stage.Stage)
	}
}

// Cost aggregation sums per-activity costs AND per-day daily_cost. When a
// draft populates both from the same source the total double-counts; this is
// the current, possibly unintended, behavior — this test documents it rather
// than endorsing it.
func TestGenerateTrip_CostSumsActivitiesAndDailyCost(t *testing.T) {
	cost := 40.0
	drafter := &fakeDrafter{draft: &DraftItinerary{
		Days: []DraftDay{{
			Activities: []DraftActivity{{Title: "Boat tour", EstimatedCost: &cost}},
			DailyCost:  100,
		}},
	}}
	planner := testPlanner(drafter, &fakeGeocoder{loc: parisLocation()})

	req := validRequest()
	req.StartDate = "2026-06-01"
	req.EndDate = "2026-06-01" // single day, no template padding

	trip, err := planner.GenerateTrip(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 140, trip.TotalCost, 1e-9)
}

func TestGenerateTrip_Deterministic(t *testing.T) {
	drafter := &fakeDrafter{err: fmt.Errorf("always down")}
	geocoder := &fakeGeocoder{loc: parisLocation()}
	planner := testPlanner(drafter, geocoder)

	first, err := planner.GenerateTrip(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := planner.GenerateTrip(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateTrip_DistanceAddsRoundTripLeg(t *testing.T) {
	drafter := &fakeDrafter{err: fmt.Errorf("down")}
	geocoder := &fakeGeocoder{loc: parisLocation()}
	planner := testPlanner(drafter, geocoder)

	near := validRequest()
	nearTrip, err := planner.GenerateTrip(context.Background(), near)
	require.NoError(t, err)

	far := validRequest()
	far.DistanceKm = 4000 // long haul
	farTrip, err := planner.GenerateTrip(context.Background(), far)
	require.NoError(t, err)

	// 2 * 4000 km * 0.150 kg/km
	assert.InDelta(t, 1200, farTrip.CarbonBreakdown.Transport-nearTrip.CarbonBreakdown.Transport, 1e-6)
	assert.Less(t, farTrip.GreenScore, nearTrip.GreenScore)
}
