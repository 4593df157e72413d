package services

import (
	"fmt"
	"time"
)

// FallbackItinerary produces a deterministic template itinerary when the AI
// provider is unavailable: the same fixed 5-activity, walking-based, zero-cost
// day repeated over the full date range. The pipeline depends on this never
// failing — same inputs, byte-identical output.
func FallbackItinerary(destination string, startDate time.Time, days int) []Day {
	template := []struct {
		time     string
		title    string
		actType  string
		duration float64
		desc     string
		ecoTip   string
	}{
		{"09:00", "Morning walk through the old town", "sightseeing", 2,
			"Explore the historic center of " + destination + " on foot.",
			"Walking tours have zero emissions — keep it up!"},
		{"11:30", "Visit a local market", "shopping", 1.5,
			"Browse regional produce and crafts at a neighborhood market.",
			"Buying local cuts transport emissions from imported goods."},
		{"13:30", "Lunch at a local restaurant", "food", 1.5,
			"Try the regional cuisine at a family-run spot.",
			"Choose seasonal, plant-based dishes to lower your footprint."},
		{"15:30", "Free museum or gallery visit", "museum", 2,
			"Many museums in " + destination + " offer free or pay-what-you-wish entry.",
			"Indoor cultural visits are among the lowest-carbon activities."},
		{"18:00", "Sunset viewpoint walk", "nature", 1.5,
			"End the day at a scenic viewpoint reachable on foot.",
			""},
	}

	itinerary := make([]Day, 0, days)
	for d := 0; d < days; d++ {
		date := startDate.AddDate(0, 0, d)

		activities := make([]Activity, 0, len(template))
		for i, t := range template {
			activities = append(activities, Activity{
				ID:             fmt.Sprintf("day%d-act%d", d+1, i+1),
				Time:           t.time,
				Title:          t.title,
				Location:       destination,
				DurationHours:  t.duration,
				EstimatedCost:  0,
				Type:           t.actType,
				Description:    t.desc,
				TransportMode:  "walking",
				EcoAlternative: t.ecoTip,
			})
		}

		itinerary = append(itinerary, Day{
			Day:        d + 1,
			Date:       date.Format("2006-01-02"),
			Theme:      fmt.Sprintf("Exploring %s on foot", destination),
			Activities: activities,
			Meals: Meals{
				Breakfast: "Local bakery or café",
				Lunch:     "Market or street food",
				Dinner:    "Neighborhood restaurant with regional dishes",
			},
			DailyCost: 0,
		})
	}

	return itinerary
}
