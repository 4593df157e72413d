package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"greentrip/services"
)

// Trip is one persisted trip: the request parameters plus everything the
// generation pipeline derived.
type Trip struct {
	ID                string                  `json:"id"`
	UserID            string                  `json:"user_id"`
	Destination       string                  `json:"destination"`
	StartDate         string                  `json:"start_date"`
	EndDate           string                  `json:"end_date"`
	Budget            float64                 `json:"budget"`
	Interests         []string                `json:"interests"`
	TravelStyle       string                  `json:"travel_style"`
	AccommodationPref string                  `json:"accommodation_preference"`
	TransportPref     string                  `json:"transport_preference"`
	Itinerary         []services.Day          `json:"itinerary"`
	Location          *services.Location      `json:"location,omitempty"`
	CarbonBreakdown   services.Breakdown      `json:"carbon_breakdown"`
	Stages            []services.StageOutcome `json:"stages,omitempty"`
	TotalCarbonKg     float64                 `json:"total_carbon_kg"`
	TotalCost         float64                 `json:"total_cost"`
	GreenScore        int                     `json:"green_score"`
	PDFData           []byte                  `json:"-"`
	CreatedAt         time.Time               `json:"created_at"`
}

const tripColumns = `id, user_id, destination, start_date, end_date, budget,
	interests_json, travel_style, accommodation, transport,
	itinerary_json, location_json, breakdown_json, stages_json,
	total_carbon_kg, total_cost, green_score, created_at`

// SaveTrip persists a trip in one insert; the composed documents are stored
// as JSON text columns.
func (s *Store) SaveTrip(ctx context.Context, t *Trip) error {
	interestsJSON, _ := json.Marshal(t.Interests)
	itineraryJSON, err := json.Marshal(t.Itinerary)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}
	locationJSON, _ := json.Marshal(t.Location)
	breakdownJSON, _ := json.Marshal(t.CarbonBreakdown)
	stagesJSON, _ := json.Marshal(t.Stages)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trips (id, user_id, destination, start_date, end_date, budget,
			interests_json, travel_style, accommodation, transport,
			itinerary_json, location_json, breakdown_json, stages_json,
			total_carbon_kg, total_cost, green_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		t.ID, t.UserID, t.Destination, t.StartDate, t.EndDate, t.Budget,
		string(interestsJSON), t.TravelStyle, t.AccommodationPref, t.TransportPref,
		string(itineraryJSON), string(locationJSON), string(breakdownJSON), string(stagesJSON),
		t.TotalCarbonKg, t.TotalCost, t.GreenScore)
	return err
}

// GetTrip fetches one trip by id.
func (s *Store) GetTrip(ctx context.Context, id string) (*Trip, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	return scanTrip(row)
}

// ListTrips returns a user's trips, newest first.
func (s *Store) ListTrips(ctx context.Context, userID string) ([]*Trip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// DeleteTrip removes a trip; owned expenses cascade.
func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetTripPDF returns the cached PDF bytes for a trip, which may be empty.
func (s *Store) GetTripPDF(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT pdf_data FROM trips WHERE id = $1`, id).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UpdateTripPDF caches generated PDF bytes on the trip row.
func (s *Store) UpdateTripPDF(ctx context.Context, id string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE trips SET pdf_data = $1 WHERE id = $2`, data, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	t := &Trip{}
	var itineraryJSON string
	var interestsJSON, locationJSON, breakdownJSON, stagesJSON sql.NullString

	err := row.Scan(&t.ID, &t.UserID, &t.Destination, &t.StartDate, &t.EndDate, &t.Budget,
		&interestsJSON, &t.TravelStyle, &t.AccommodationPref, &t.TransportPref,
		&itineraryJSON, &locationJSON, &breakdownJSON, &stagesJSON,
		&t.TotalCarbonKg, &t.TotalCost, &t.GreenScore, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itineraryJSON), &t.Itinerary); err != nil {
		return nil, fmt.Errorf("unmarshal itinerary for trip %s: %w", t.ID, err)
	}
	if interestsJSON.Valid {
		_ = json.Unmarshal([]byte(interestsJSON.String), &t.Interests)
	}
	if locationJSON.Valid {
		_ = json.Unmarshal([]byte(locationJSON.String), &t.Location)
	}
	if breakdownJSON.Valid {
		_ = json.Unmarshal([]byte(breakdownJSON.String), &t.CarbonBreakdown)
	}
	if stagesJSON.Valid {
		_ = json.Unmarshal([]byte(stagesJSON.String), &t.Stages)
	}

	return t, nil
}
