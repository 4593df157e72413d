package services

// Activity is one entry in a day's schedule. Field names here are the wire
// contract consumed by the frontend and the PDF renderer.
type Activity struct {
	ID             string  `json:"id"`
	Time           string  `json:"time"`
	Title          string  `json:"title"`
	Location       string  `json:"location"`
	DurationHours  float64 `json:"duration_hours"`
	EstimatedCost  float64 `json:"estimated_cost"`
	CarbonKg       float64 `json:"carbon_kg"`
	Type           string  `json:"type"`
	Description    string  `json:"description,omitempty"`
	TransportMode  string  `json:"transport_mode,omitempty"`
	TransportKm    float64 `json:"transport_km,omitempty"`
	EcoAlternative string  `json:"eco_alternative,omitempty"`
}

// Meals holds the suggested meals for a day.
type Meals struct {
	Breakfast string `json:"breakfast,omitempty"`
	Lunch     string `json:"lunch,omitempty"`
	Dinner    string `json:"dinner,omitempty"`
}

// Day is one itinerary day: 1-based day number and an absolute calendar date.
type Day struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Theme      string     `json:"theme,omitempty"`
	Activities []Activity `json:"activities"`
	Meals      Meals      `json:"meals"`
	DailyCost  float64    `json:"daily_cost"`
}
