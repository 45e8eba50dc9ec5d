package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/talent-match/internal/types"
)

// CountInteractions aggregates interaction counts per job id over the given
// candidates. Applied interactions come from the applications table, views
// from job_views.
func (db *DB) CountInteractions(ctx context.Context, candidateIDs []uuid.UUID, kind types.InteractionKind) (map[uuid.UUID]int, error) {
	if len(candidateIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	var table string
	switch kind {
	case types.InteractionApplied:
		table = "applications"
	case types.InteractionViewed:
		table = "job_views"
	default:
		return nil, fmt.Errorf("unknown interaction kind: %q", kind)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT job_id, COUNT(*) FROM `+table+` WHERE candidate_id = ANY($1) GROUP BY job_id`,
		candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s interactions: %w", kind, err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var jobID uuid.UUID
		var count int
		if err := rows.Scan(&jobID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan interaction count: %w", err)
		}
		counts[jobID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read interaction counts: %w", err)
	}
	return counts, nil
}
