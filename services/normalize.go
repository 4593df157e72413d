package services

import (
	"fmt"
	"time"
)

// NormalizeItinerary turns a loose AI draft into the canonical itinerary
// shape: 1-based day numbers, absolute calendar dates, stable activity ids,
// defaults for omitted fields, and one fixed output key per concept
// regardless of which alias the draft used.
//
// Alias priority per field (first non-empty wins):
//
//	title:           title > name > activity
//	estimated_cost:  estimated_cost > cost > price
//	carbon_kg:       carbon_kg > carbon > co2_kg
//	type:            type > category
//	duration_hours:  duration_hours > duration
//	transport_mode:  transport_mode > transport
//	transport_km:    transport_km > distance_km
//	eco_alternative: eco_alternative > eco_tip > green_tip
//
// If the draft covers fewer days than requested, the tail is filled from the
// template itinerary so the output always spans the full date range; extra
// draft days are dropped.
func NormalizeItinerary(draft *DraftItinerary, destination string, startDate time.Time, days int) ([]Day, error) {
	if days <= 0 {
		return nil, fmt.Errorf("cannot normalize itinerary for %d days", days)
	}
	if draft == nil {
		return nil, fmt.Errorf("cannot normalize nil draft")
	}

	draftDays := draft.DraftDays()
	itinerary := make([]Day, 0, days)

	for d := 0; d < days && d < len(draftDays); d++ {
		src := draftDays[d]
		date := startDate.AddDate(0, 0, d)

		day := Day{
			Day:       d + 1,
			Date:      date.Format("2006-01-02"),
			Theme:     firstNonEmpty(src.Theme, src.Title),
			Meals:     src.Meals,
			DailyCost: firstPositive(src.DailyCost, src.TotalCost),
		}

		day.Activities = make([]Activity, 0, len(src.Activities))
		for i, a := range src.Activities {
			act := Activity{
				ID:             fmt.Sprintf("day%d-act%d", d+1, i+1),
				Time:           firstNonEmpty(a.Time, "09:00"),
				Title:          firstNonEmpty(a.Title, a.Name, a.Activity, "Explore "+destination),
				Location:       firstNonEmpty(a.Location, destination),
				DurationHours:  firstPositive(a.DurationHours, a.Duration, 2),
				EstimatedCost:  firstFloat(a.EstimatedCost, a.Cost, a.Price),
				CarbonKg:       firstFloat(a.CarbonKg, a.Carbon, a.CO2Kg),
				Type:           firstNonEmpty(a.Type, a.Category, "sightseeing"),
				Description:    a.Description,
				TransportMode:  firstNonEmpty(a.TransportMode, a.Transport),
				TransportKm:    firstPositive(a.TransportKm, a.DistanceKm),
				EcoAlternative: firstNonEmpty(a.EcoAlternative, a.EcoTip, a.GreenTip),
			}
			day.Activities = append(day.Activities, act)
		}

		itinerary = append(itinerary, day)
	}

	// Pad short drafts from the template so every date is covered. Activity
	// ids embed the day number, so renumbering the day means reissuing them.
	if len(itinerary) < days {
		base := len(itinerary)
		tailStart := startDate.AddDate(0, 0, base)
		for i, day := range FallbackItinerary(destination, tailStart, days-base) {
			day.Day = base + i + 1
			for j := range day.Activities {
				day.Activities[j].ID = fmt.Sprintf("day%d-act%d", day.Day, j+1)
			}
			itinerary = append(itinerary, day)
		}
	}

	return itinerary, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
