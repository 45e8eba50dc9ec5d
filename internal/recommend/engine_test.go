package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/types"
)

func seekerWithJob(repo *fakeRepo) *types.Candidate {
	candidate := &types.Candidate{
		ID:         uuid.New(),
		Skills:     []string{"Go", "Python"},
		Experience: types.ExperienceMid,
	}
	repo.addCandidate(candidate, types.RoleJobSeeker)
	repo.jobs = []types.JobPosting{{
		ID:            uuid.New(),
		Title:         "Backend Engineer",
		Skills:        []string{"Go", "Python"},
		Experience:    types.ExperienceMid,
		RemoteAllowed: true,
		Active:        true,
		CreatedAt:     time.Now(),
	}}
	return candidate
}

func TestRecommendJobs_ReturnsRankedEntries(t *testing.T) {
	repo := newFakeRepo()
	candidate := seekerWithJob(repo)

	engine := newTestEngine(repo)
	result := engine.RecommendJobs(context.Background(), candidate.ID, 10)

	assert.False(t, result.Denied)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, repo.jobs[0].ID, result.Entries[0].Job.ID)
	assert.Greater(t, result.Entries[0].Score, 0.0)
}

func TestRecommendJobs_DeniedForNonJobSeeker(t *testing.T) {
	repo := newFakeRepo()
	recruiter := &types.Candidate{ID: uuid.New()}
	repo.addCandidate(recruiter, types.RoleRecruiter)

	engine := newTestEngine(repo)
	result := engine.RecommendJobs(context.Background(), recruiter.ID, 10)

	assert.True(t, result.Denied)
	assert.Empty(t, result.Entries)
}

func TestRecommendJobs_RepositoryFailureDegradesToEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.err = assert.AnError

	engine := newTestEngine(repo)
	result := engine.RecommendJobs(context.Background(), uuid.New(), 10)

	assert.False(t, result.Denied)
	assert.Empty(t, result.Entries)
}

func TestRecommendJobs_UnknownCandidateIsEmpty(t *testing.T) {
	repo := newFakeRepo()

	engine := newTestEngine(repo)
	result := engine.RecommendJobs(context.Background(), uuid.New(), 10)

	assert.False(t, result.Denied)
	assert.Empty(t, result.Entries)
}

func TestRecommendJobs_SecondCallServedFromCache(t *testing.T) {
	repo := newFakeRepo()
	candidate := seekerWithJob(repo)

	engine := newTestEngine(repo)
	first := engine.RecommendJobs(context.Background(), candidate.ID, 10)
	require.Len(t, first.Entries, 1)

	// Changing the store has no effect until the cached entry expires.
	repo.jobs = nil
	second := engine.RecommendJobs(context.Background(), candidate.ID, 10)

	require.Len(t, second.Entries, 1)
	assert.Equal(t, first.Entries[0].Job.ID, second.Entries[0].Job.ID)
	assert.Equal(t, first.Entries[0].Score, second.Entries[0].Score)
	assert.Equal(t, first.Entries[0].Reasons, second.Entries[0].Reasons)
}

func TestRecommendJobs_AnalyticsFailureIsSwallowed(t *testing.T) {
	repo := newFakeRepo()
	candidate := seekerWithJob(repo)

	engine := NewEngine(repo, cache.NewMemory(), failingRecorder{err: assert.AnError}, zerolog.Nop(), DefaultTuning())
	result := engine.RecommendJobs(context.Background(), candidate.ID, 10)

	assert.False(t, result.Denied)
	require.Len(t, result.Entries, 1)
}

func TestRecommendCandidates_RanksAndExcludesApplicants(t *testing.T) {
	job := types.JobPosting{
		ID:         uuid.New(),
		Skills:     []string{"Go", "Python"},
		Experience: types.ExperienceMid,
		Location:   "Berlin",
		Active:     true,
		CreatedAt:  time.Now(),
	}

	fit := types.Candidate{
		ID: uuid.New(), Skills: []string{"Go", "Python"},
		Experience: types.ExperienceMid, Location: "Berlin",
	}
	applicant := types.Candidate{
		ID: uuid.New(), Skills: []string{"Go", "Python"},
		Experience: types.ExperienceMid, Location: "Berlin",
		AppliedJobIDs: []uuid.UUID{job.ID},
	}

	repo := newFakeRepo()
	repo.jobs = []types.JobPosting{job}
	repo.pool = []types.Candidate{applicant, fit}

	engine := newTestEngine(repo)
	result := engine.RecommendCandidates(context.Background(), job.ID, 10)

	assert.False(t, result.Denied)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, fit.ID, result.Entries[0].Candidate.ID)
	// 0.5*1.0 skills + 0.3*0.9 exact tier + 0.2*0.6 location = 0.89.
	assert.InDelta(t, 0.89, result.Entries[0].Score, 1e-9)
	assert.Len(t, result.Entries[0].Reasons, 2)
}

func TestRecommendCandidates_UnknownJobIsEmpty(t *testing.T) {
	engine := newTestEngine(newFakeRepo())
	result := engine.RecommendCandidates(context.Background(), uuid.New(), 10)

	assert.False(t, result.Denied)
	assert.Empty(t, result.Entries)
}

func TestInvalidateCandidate_DropsCachedRecommendations(t *testing.T) {
	repo := newFakeRepo()
	candidate := seekerWithJob(repo)

	engine := newTestEngine(repo)
	first := engine.RecommendJobs(context.Background(), candidate.ID, 10)
	require.Len(t, first.Entries, 1)

	deleted := engine.InvalidateCandidate(context.Background(), candidate.ID)
	assert.Equal(t, 1, deleted)

	// Recomputed from the now-empty store.
	repo.jobs = nil
	second := engine.RecommendJobs(context.Background(), candidate.ID, 10)
	assert.Empty(t, second.Entries)
}
