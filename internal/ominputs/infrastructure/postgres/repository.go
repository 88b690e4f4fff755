package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ominputs "solar-dgr/internal/ominputs/domain"
)

// Repository persists O&M manual inputs.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes inputs for (customer, day), overwriting prior values.
func (r *Repository) Upsert(ctx context.Context, inputs ominputs.Inputs) error {
	if r == nil || r.db == nil {
		return errors.New("ominputs repo: nil db")
	}
	if err := inputs.Validate(); err != nil {
		return err
	}
	if inputs.UpdatedAt.IsZero() {
		inputs.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO om_manual_inputs (
	customer_id, day, breakdown_hours, generation_hours, operating_hours,
	weather, notes, author, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (customer_id, day) DO UPDATE SET
	breakdown_hours = EXCLUDED.breakdown_hours,
	generation_hours = EXCLUDED.generation_hours,
	operating_hours = EXCLUDED.operating_hours,
	weather = EXCLUDED.weather,
	notes = EXCLUDED.notes,
	author = EXCLUDED.author,
	updated_at = EXCLUDED.updated_at`,
		inputs.CustomerID, inputs.Day, inputs.BreakdownHours, inputs.GenerationHours,
		inputs.OperatingHours, inputs.Weather, inputs.Notes, inputs.Author, inputs.UpdatedAt)
	return err
}

// Find returns inputs for (customer, day) or ErrNotFound.
func (r *Repository) Find(ctx context.Context, customerID, day string) (*ominputs.Inputs, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ominputs repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT customer_id, day, breakdown_hours, generation_hours, operating_hours,
	weather, notes, author, updated_at
FROM om_manual_inputs
WHERE customer_id = $1 AND day = $2`, customerID, day)

	var inputs ominputs.Inputs
	err := row.Scan(&inputs.CustomerID, &inputs.Day, &inputs.BreakdownHours,
		&inputs.GenerationHours, &inputs.OperatingHours, &inputs.Weather,
		&inputs.Notes, &inputs.Author, &inputs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ominputs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inputs, nil
}
