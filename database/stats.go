package database

import (
	"context"
)

// TripStats compares a trip's planned cost with entered expenses.
type TripStats struct {
	TripID        string             `json:"trip_id"`
	PlannedCost   float64            `json:"planned_cost"`
	TotalSpent    float64            `json:"total_spent"`
	ByCategory    map[string]float64 `json:"by_category"`
	ExpenseCount  int                `json:"expense_count"`
	TotalCarbonKg float64            `json:"total_carbon_kg"`
	GreenScore    int                `json:"green_score"`
}

// UserStats aggregates a user's trips for the dashboard.
type UserStats struct {
	TripCount     int     `json:"trip_count"`
	TotalCarbonKg float64 `json:"total_carbon_kg"`
	AvgGreenScore float64 `json:"avg_green_score"`
	TotalBudget   float64 `json:"total_budget"`
	TotalPlanned  float64 `json:"total_planned_cost"`
	TotalSpent    float64 `json:"total_spent"`
}

// GetTripStats computes expense totals per category for one trip.
func (s *Store) GetTripStats(ctx context.Context, tripID string) (*TripStats, error) {
	stats := &TripStats{
		TripID:     tripID,
		ByCategory: map[string]float64{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT total_cost, total_carbon_kg, green_score FROM trips WHERE id = $1`,
		tripID).Scan(&stats.PlannedCost, &stats.TotalCarbonKg, &stats.GreenScore)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(amount), 0)
		FROM expenses WHERE trip_id = $1 GROUP BY category`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		var sum float64
		if err := rows.Scan(&category, &count, &sum); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = sum
		stats.TotalSpent += sum
		stats.ExpenseCount += count
	}
	return stats, rows.Err()
}

// GetUserStats computes the dashboard aggregates for one user.
func (s *Store) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	stats := &UserStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_carbon_kg), 0),
		       COALESCE(AVG(green_score), 0),
		       COALESCE(SUM(budget), 0),
		       COALESCE(SUM(total_cost), 0)
		FROM trips WHERE user_id = $1`, userID).
		Scan(&stats.TripCount, &stats.TotalCarbonKg, &stats.AvgGreenScore,
			&stats.TotalBudget, &stats.TotalPlanned)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM expenses e JOIN trips t ON t.id = e.trip_id
		WHERE t.user_id = $1`, userID).Scan(&stats.TotalSpent)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
