package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestNormalizeItinerary_AliasPriority(t *testing.T) {
	draft := &DraftItinerary{
		Days: []DraftDay{{
			Title: "Old town day", // theme alias
			Activities: []DraftActivity{
				{
					// aliases only, canonical fields empty
					Name:       "Louvre visit",
					Cost:       fptr(17),
					Carbon:     fptr(1.4),
					Category:   "museum",
					Duration:   3,
					Transport:  "metro",
					DistanceKm: 4,
					EcoTip:     "Go by metro, not taxi",
				},
				{
					// canonical fields win over aliases
					Title:          "Seine walk",
					Name:           "ignored",
					EstimatedCost:  fptr(0),
					Cost:           fptr(99),
					Type:           "sightseeing",
					Category:       "ignored",
					EcoAlternative: "canonical tip",
					EcoTip:         "ignored",
				},
			},
		}},
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	days, err := NormalizeItinerary(draft, "Paris, France", start, 1)
	require.NoError(t, err)
	require.Len(t, days, 1)

	day := days[0]
	assert.Equal(t, 1, day.Day)
	assert.Equal(t, "2026-06-01", day.Date)
	assert.Equal(t, "Old town day", day.Theme)

	require.Len(t, day.Activities, 2)
	first := day.Activities[0]
	assert.Equal(t, "Louvre visit", first.Title)
	assert.Equal(t, 17.0, first.EstimatedCost)
	assert.Equal(t, 1.4, first.CarbonKg)
	assert.Equal(t, "museum", first.Type)
	assert.Equal(t, 3.0, first.DurationHours)
	assert.Equal(t, "metro", first.TransportMode)
	assert.Equal(t, 4.0, first.TransportKm)
	assert.Equal(t, "Go by metro, not taxi", first.EcoAlternative)

	second := day.Activities[1]
	assert.Equal(t, "Seine walk", second.Title)
	assert.Equal(t, 0.0, second.EstimatedCost, "explicit zero cost must not fall through to alias")
	assert.Equal(t, "sightseeing", second.Type)
	assert.Equal(t, "canonical tip", second.EcoAlternative)
}

func TestNormalizeItinerary_Defaults(t *testing.T) {
	draft := &DraftItinerary{
		Days: []DraftDay{{Activities: []DraftActivity{{}}}},
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	days, err := NormalizeItinerary(draft, "Lisbon", start, 1)
	require.NoError(t, err)

	act := days[0].Activities[0]
	assert.Equal(t, "day1-act1", act.ID)
	assert.Equal(t, "09:00", act.Time)
	assert.Equal(t, "Explore Lisbon", act.Title)
	assert.Equal(t, "Lisbon", act.Location)
	assert.Equal(t, 2.0, act.DurationHours)
	assert.Equal(t, 0.0, act.EstimatedCost)
	assert.Equal(t, "sightseeing", act.Type)
}

func TestNormalizeItinerary_DayNumbersAndDates(t *testing.T) {
	draft := &DraftItinerary{
		// draft uses "itinerary" key and its own (wrong) day numbers
		Itinerary: []DraftDay{
			{Day: 7}, {Day: 9}, {Day: 11},
		},
	}

	start := time.Date(2026, 6, 29, 0, 0, 0, 0, time.UTC)
	days, err := NormalizeItinerary(draft, "Oslo", start, 3)
	require.NoError(t, err)
	require.Len(t, days, 3)

	wantDates := []string{"2026-06-29", "2026-06-30", "2026-07-01"}
	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		assert.Equal(t, wantDates[i], day.Date)
	}
}

func TestNormalizeItinerary_PadsShortDrafts(t *testing.T) {
	draft := &DraftItinerary{
		Days: []DraftDay{{Theme: "First day", Activities: []DraftActivity{{Title: "Colosseum"}}}},
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	days, err := NormalizeItinerary(draft, "Rome", start, 3)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "First day", days[0].Theme)
	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		assert.Equal(t, start.AddDate(0, 0, i).Format("2006-01-02"), day.Date)
	}
	// the padded tail comes from the template and is never empty
	assert.NotEmpty(t, days[1].Activities)
	assert.NotEmpty(t, days[2].Activities)

	// padded days are renumbered, so their activity ids must not collide
	// with the draft days'
	seen := map[string]bool{}
	for _, day := range days {
		for _, act := range day.Activities {
			assert.False(t, seen[act.ID], "duplicate activity id %s", act.ID)
			seen[act.ID] = true
		}
	}
}

func TestNormalizeItinerary_TruncatesLongDrafts(t *testing.T) {
	draft := &DraftItinerary{
		Days: []DraftDay{{}, {}, {}, {}, {}},
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	days, err := NormalizeItinerary(draft, "Rome", start, 2)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestNormalizeItinerary_Invalid(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := NormalizeItinerary(nil, "Rome", start, 2)
	assert.Error(t, err)

	_, err = NormalizeItinerary(&DraftItinerary{}, "Rome", start, 0)
	assert.Error(t, err)
}

func TestFallbackItinerary(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	days := FallbackItinerary("Kyoto", start, 4)
	require.Len(t, days, 4)

	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		assert.Equal(t, start.AddDate(0, 0, i).Format("2006-01-02"), day.Date)
		assert.Len(t, day.Activities, 5)
		assert.Zero(t, day.DailyCost)
		for _, act := range day.Activities {
			assert.Zero(t, act.EstimatedCost)
			assert.Equal(t, "walking", act.TransportMode)
			assert.NotEmpty(t, act.Title)
		}
	}

	// deterministic: same input, identical output
	assert.Equal(t, days, FallbackItinerary("Kyoto", start, 4))
}
