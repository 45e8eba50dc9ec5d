package recommend

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/types"
)

// SignalRepository is the read-only view of the persistent store the engine
// consumes. Each method states exactly what is fetched and in what batch
// shape, so the implementation can use eager joins or batched reads without
// touching the scoring logic. The engine never writes through it.
type SignalRepository interface {
	// GetCandidate returns one candidate with skills and applied/viewed job
	// sets loaded, or (nil, nil) if no such candidate exists.
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)

	// ListCandidates returns up to limit candidate snapshots with skills and
	// interaction sets loaded.
	ListCandidates(ctx context.Context, limit int) ([]types.Candidate, error)

	// FindJobs returns postings matching the explicit filter.
	FindJobs(ctx context.Context, filter types.JobFilter) ([]types.JobPosting, error)

	// FindCandidates returns candidates matching the explicit filter.
	FindCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.Candidate, error)

	// GetJob returns one posting, or (nil, nil) if it does not exist.
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosting, error)

	// GetJobs returns the postings for the given ids, skipping missing ones.
	GetJobs(ctx context.Context, ids []uuid.UUID) ([]types.JobPosting, error)

	// CountInteractions aggregates interaction counts per job id over the
	// given candidates.
	CountInteractions(ctx context.Context, candidateIDs []uuid.UUID, kind types.InteractionKind) (map[uuid.UUID]int, error)

	// GetUserRole returns the marketplace role of a user.
	GetUserRole(ctx context.Context, id uuid.UUID) (types.Role, error)
}
