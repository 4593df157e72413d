package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greentrip/services"
)

// EmissionFactor is one administrable row of the factor table.
type EmissionFactor struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category"`
	Factor      float64   `json:"factor"`
	Unit        string    `json:"unit"`
	Active      bool      `json:"active"`
	Source      string    `json:"source,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ActiveFactor implements services.FactorStore against the emission_factors
// table.
func (s *Store) ActiveFactor(ctx context.Context, category, subCategory string) (float64, error) {
	var factor float64
	err := s.db.QueryRowContext(ctx, `
		SELECT factor FROM emission_factors
		WHERE category = $1 AND sub_category = $2 AND active`,
		category, subCategory).Scan(&factor)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s/%s", services.ErrFactorNotFound, category, subCategory)
	}
	if err != nil {
		return 0, err
	}
	return factor, nil
}

// ListFactors returns the whole factor table, active and inactive.
func (s *Store) ListFactors(ctx context.Context) ([]*EmissionFactor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, sub_category, factor, unit, active, source, description, created_at, updated_at
		FROM emission_factors ORDER BY category, sub_category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []*EmissionFactor
	for rows.Next() {
		f := &EmissionFactor{}
		var source, description sql.NullString
		if err := rows.Scan(&f.ID, &f.Category, &f.SubCategory, &f.Factor, &f.Unit,
			&f.Active, &source, &description, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Source = source.String
		f.Description = description.String
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

// CreateFactor inserts a factor. The partial unique index rejects a second
// active factor for the same (category, sub_category) pair.
func (s *Store) CreateFactor(ctx context.Context, f *EmissionFactor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO emission_factors (id, category, sub_category, factor, unit, active, source, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.Category, f.SubCategory, f.Factor, f.Unit, f.Active, f.Source, f.Description)
	return err
}

// UpdateFactor updates a factor's value and provenance.
func (s *Store) UpdateFactor(ctx context.Context, f *EmissionFactor) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE emission_factors
		SET factor = $1, unit = $2, active = $3, source = $4, description = $5, updated_at = NOW()
		WHERE id = $6`,
		f.Factor, f.Unit, f.Active, f.Source, f.Description, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateFactor soft-deactivates a factor so historical trips keep their
// provenance while new calculations stop using it.
func (s *Store) DeactivateFactor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE emission_factors SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteFactor hard-deletes a factor.
func (s *Store) DeleteFactor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM emission_factors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
