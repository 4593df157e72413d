package services

import "math"

// GreenScore maps a trip's total carbon footprint to a 0–100 sustainability
// score from its average daily emissions. The piecewise curve is continuous
// and non-increasing, with breakpoints at 5, 15, 30 and 50 kg/day landing
// exactly on scores 90, 50, 20 and 10. Dashboards and UI color bands depend
// on these exact breakpoints.
func GreenScore(totalCarbonKg float64, tripDays int) int {
	if tripDays <= 0 || totalCarbonKg < 0 {
		return 0
	}

	daily := totalCarbonKg / float64(tripDays)

	var score float64
	switch {
	case daily < 5:
		score = 100 - daily*2
	case daily < 15:
		score = 90 - (daily-5)*4
	case daily < 30:
		score = 50 - (daily-15)*2
	case daily < 50:
		score = 20 - (daily-30)*0.5
	default:
		score = math.Max(0, 10-(daily-50)*0.2)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

// ScoreBand labels a green score for display: green / yellow / red on the UI.
func ScoreBand(score int) string {
	switch {
	case score >= 70:
		return "good"
	case score >= 40:
		return "moderate"
	default:
		return "poor"
	}
}
