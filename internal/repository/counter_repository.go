package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// CounterRepository provides atomic named counters backed by the id_counter table.
type CounterRepository struct {
	db *sql.DB
}

// NewCounterRepository creates a new CounterRepository with the provided database connection.
func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Increment atomically increments the named counter and returns its new value.
// A counter that does not exist yet starts at 1.
func (r *CounterRepository) Increment(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO id_counter (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value
	`

	var value int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return value, nil
}
