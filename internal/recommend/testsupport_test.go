package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/talent-match/internal/analytics"
	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/types"
)

// fakeRepo is an in-memory SignalRepository for engine tests.
type fakeRepo struct {
	candidates map[uuid.UUID]*types.Candidate
	pool       []types.Candidate
	jobs       []types.JobPosting
	roles      map[uuid.UUID]types.Role
	applied    map[uuid.UUID]int
	viewed     map[uuid.UUID]int
	err        error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		candidates: make(map[uuid.UUID]*types.Candidate),
		roles:      make(map[uuid.UUID]types.Role),
		applied:    make(map[uuid.UUID]int),
		viewed:     make(map[uuid.UUID]int),
	}
}

func (f *fakeRepo) addCandidate(c *types.Candidate, role types.Role) {
	f.candidates[c.ID] = c
	f.roles[c.ID] = role
}

func (f *fakeRepo) GetCandidate(_ context.Context, id uuid.UUID) (*types.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[id], nil
}

func (f *fakeRepo) ListCandidates(_ context.Context, limit int) ([]types.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.pool) > limit {
		return f.pool[:limit], nil
	}
	return f.pool, nil
}

func (f *fakeRepo) FindJobs(_ context.Context, filter types.JobFilter) ([]types.JobPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	var jobs []types.JobPosting
	for _, job := range f.jobs {
		if filter.ActiveOnly && !job.Active {
			continue
		}
		if filter.MaxAgeDays > 0 && job.AgeDays(now) > float64(filter.MaxAgeDays) {
			continue
		}
		jobs = append(jobs, job)
	}
	if filter.Limit > 0 && len(jobs) > filter.Limit {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}

func (f *fakeRepo) FindCandidates(_ context.Context, filter types.CandidateFilter) ([]types.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if filter.Limit > 0 && len(f.pool) > filter.Limit {
		return f.pool[:filter.Limit], nil
	}
	return f.pool, nil
}

func (f *fakeRepo) GetJob(_ context.Context, id uuid.UUID) (*types.JobPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			return &f.jobs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetJobs(_ context.Context, ids []uuid.UUID) ([]types.JobPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var jobs []types.JobPosting
	for _, job := range f.jobs {
		if want[job.ID] {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (f *fakeRepo) CountInteractions(_ context.Context, _ []uuid.UUID, kind types.InteractionKind) (map[uuid.UUID]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if kind == types.InteractionApplied {
		return f.applied, nil
	}
	return f.viewed, nil
}

func (f *fakeRepo) GetUserRole(_ context.Context, id uuid.UUID) (types.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	if role, ok := f.roles[id]; ok {
		return role, nil
	}
	return types.RoleJobSeeker, nil
}

// failingRecorder always errors, for the swallow-and-log contract.
type failingRecorder struct{ err error }

func (r failingRecorder) Record(context.Context, uuid.UUID, string, string, map[string]string, int) error {
	return r.err
}

func newTestEngine(repo SignalRepository) *Engine {
	return NewEngine(repo, cache.NewMemory(), analytics.Nop{}, zerolog.Nop(), DefaultTuning())
}

func intPtr(v int) *int { return &v }
