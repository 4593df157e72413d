package database

import (
	"context"
	"database/sql"
	"time"
)

// Expense is a user-entered actual spend against a trip, independent of the
// itinerary's estimated costs.
type Expense struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	SpentAt     string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveExpense records an expense against a trip.
func (s *Store) SaveExpense(ctx context.Context, e *Expense) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, trip_id, category, amount, description, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.TripID, e.Category, e.Amount, e.Description, e.SpentAt)
	return err
}

// ListExpenses returns a trip's expenses, newest spend first.
func (s *Store) ListExpenses(ctx context.Context, tripID string) ([]*Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trip_id, category, amount, description, spent_at, created_at
		FROM expenses WHERE trip_id = $1 ORDER BY spent_at DESC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(&e.ID, &e.TripID, &e.Category, &e.Amount,
			&e.Description, &e.SpentAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes one expense. The delete is joined to the owning
// trip so a caller can only remove expenses on their own trips.
func (s *Store) DeleteExpense(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM expenses e USING trips t
		WHERE e.id = $1 AND t.id = e.trip_id AND t.user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
