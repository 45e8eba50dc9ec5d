// Package analytics records search and recommendation invocations for later
// reporting. Recording is fire-and-forget: callers log failures and never let
// them affect the returned result.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder persists one invocation of a search or recommendation operation.
type Recorder interface {
	Record(ctx context.Context, subjectID uuid.UUID, kind, query string, filters map[string]string, resultCount int) error
}

// PG writes invocation records to the search_events table.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG creates a PostgreSQL-backed recorder.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// Record inserts one event row. Filters are stored as JSONB.
func (r *PG) Record(ctx context.Context, subjectID uuid.UUID, kind, query string, filters map[string]string, resultCount int) error {
	var filtersJSON []byte
	if len(filters) > 0 {
		var err error
		filtersJSON, err = json.Marshal(filters)
		if err != nil {
			return fmt.Errorf("failed to marshal filters: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO search_events (subject_id, kind, query, filters, result_count)
		 VALUES ($1, $2, $3, $4, $5)`,
		subjectID, kind, query, filtersJSON, resultCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", kind, err)
	}
	return nil
}

// Nop discards every record. Used by tests and the CLI.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, uuid.UUID, string, string, map[string]string, int) error {
	return nil
}
