package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/analytics"
	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/types"
)

// fakeSearchRepo is an in-memory Repository for ranker tests.
type fakeSearchRepo struct {
	jobs       []types.JobPosting
	candidates []types.Candidate
	profiles   map[uuid.UUID]*types.Candidate
	roles      map[uuid.UUID]types.Role
	err        error
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{
		profiles: make(map[uuid.UUID]*types.Candidate),
		roles:    make(map[uuid.UUID]types.Role),
	}
}

func (f *fakeSearchRepo) FindJobs(_ context.Context, filter types.JobFilter) ([]types.JobPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	var jobs []types.JobPosting
	for _, job := range f.jobs {
		if filter.ActiveOnly && !job.Active {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (f *fakeSearchRepo) FindCandidates(_ context.Context, _ types.CandidateFilter) ([]types.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func (f *fakeSearchRepo) GetCandidate(_ context.Context, id uuid.UUID) (*types.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[id], nil
}

func (f *fakeSearchRepo) GetUserRole(_ context.Context, id uuid.UUID) (types.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	if role, ok := f.roles[id]; ok {
		return role, nil
	}
	return types.RoleJobSeeker, nil
}

func newTestRanker(repo Repository) *Ranker {
	return NewRanker(repo, cache.NewMemory(), analytics.Nop{}, zerolog.Nop())
}

func activeJob(title string, views int, createdAt time.Time) types.JobPosting {
	return types.JobPosting{
		ID:        uuid.New(),
		Title:     title,
		Active:    true,
		ViewCount: views,
		CreatedAt: createdAt,
	}
}

func TestSearchJobs_EmptyQueryReturnsAllActiveByPopularity(t *testing.T) {
	repo := newFakeSearchRepo()
	repo.jobs = []types.JobPosting{
		activeJob("Quiet", 1, time.Now()),
		activeJob("Busy", 50, time.Now()),
		{ID: uuid.New(), Title: "Inactive", Active: false, CreatedAt: time.Now()},
	}

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{})

	assert.False(t, page.Denied)
	require.Len(t, page.Results, 2)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "Busy", page.Results[0].Job.Title)
	assert.Equal(t, 1.0, page.Results[0].Relevance)
}

func TestSearchJobs_ConjunctionFiltersNonMatches(t *testing.T) {
	repo := newFakeSearchRepo()
	both := activeJob("Senior Go Engineer", 0, time.Now())
	oneTerm := activeJob("Go Developer", 0, time.Now())
	repo.jobs = []types.JobPosting{both, oneTerm}

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{Query: "senior go"})

	require.Len(t, page.Results, 1)
	assert.Equal(t, both.ID, page.Results[0].Job.ID)
}

func TestSearchJobs_PaginationComputesTotalBeforeSlicing(t *testing.T) {
	repo := newFakeSearchRepo()
	for i := 0; i < 5; i++ {
		repo.jobs = append(repo.jobs, activeJob("Go Engineer", i, time.Now()))
	}

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{Query: "go", Limit: 2, Offset: 2})

	assert.Equal(t, 5, page.TotalCount)
	assert.Len(t, page.Results, 2)
	assert.True(t, page.HasNext)

	last := ranker.SearchJobs(context.Background(), JobQuery{Query: "go", Limit: 2, Offset: 4})
	assert.Len(t, last.Results, 1)
	assert.False(t, last.HasNext)
}

func TestSearchJobs_OffsetPastEndIsEmpty(t *testing.T) {
	repo := newFakeSearchRepo()
	repo.jobs = []types.JobPosting{activeJob("Go Engineer", 0, time.Now())}

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{Limit: 10, Offset: 50})

	assert.Empty(t, page.Results)
	assert.Equal(t, 1, page.TotalCount)
	assert.False(t, page.HasNext)
}

func TestSearchJobs_PersonalizesForKnownCandidate(t *testing.T) {
	job := types.JobPosting{
		ID:            uuid.New(),
		Title:         "Go Engineer",
		Skills:        []string{"Go", "Kubernetes"},
		Experience:    types.ExperienceMid,
		RemoteAllowed: true,
		SalaryMin:     intPtr(70000),
		SalaryMax:     intPtr(90000),
		Active:        true,
		CreatedAt:     time.Now(),
	}

	candidate := &types.Candidate{
		ID:             uuid.New(),
		Skills:         []string{"Go"},
		Experience:     types.ExperienceMid,
		ExpectedSalary: intPtr(80000),
		ViewedJobIDs:   []uuid.UUID{job.ID},
	}

	repo := newFakeSearchRepo()
	repo.jobs = []types.JobPosting{job}
	repo.profiles[candidate.ID] = candidate

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{CandidateID: &candidate.ID})

	require.Len(t, page.Results, 1)
	p := page.Results[0].Personalization
	require.NotNil(t, p)
	assert.InDelta(t, 50.0, p.SkillMatchPercent, 1e-9)
	assert.Equal(t, []string{"go"}, p.MatchingSkills)
	assert.Equal(t, []string{"kubernetes"}, p.MissingSkills)
	assert.True(t, p.ExperienceMatch)
	assert.True(t, p.LocationMatch)
	assert.True(t, p.SalaryMatch)
	assert.False(t, p.HasApplied)
	assert.True(t, p.HasViewed)
	assert.Nil(t, p.RecommendationScore)
}

func TestSearchJobs_AnonymousResultsCarryNoPersonalization(t *testing.T) {
	repo := newFakeSearchRepo()
	repo.jobs = []types.JobPosting{activeJob("Go Engineer", 0, time.Now())}

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{})

	require.Len(t, page.Results, 1)
	assert.Nil(t, page.Results[0].Personalization)
}

func TestSearchJobs_ReadFailureDegradesToEmptyPage(t *testing.T) {
	repo := newFakeSearchRepo()
	repo.err = assert.AnError

	ranker := newTestRanker(repo)
	page := ranker.SearchJobs(context.Background(), JobQuery{Query: "go"})

	assert.False(t, page.Denied)
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.TotalCount)
}

func TestSearchJobs_SecondCallServedFromCache(t *testing.T) {
	repo := newFakeSearchRepo()
	repo.jobs = []types.JobPosting{activeJob("Go Engineer", 0, time.Now())}

	ranker := newTestRanker(repo)
	first := ranker.SearchJobs(context.Background(), JobQuery{Query: "go"})
	require.Equal(t, 1, first.TotalCount)

	repo.jobs = nil
	second := ranker.SearchJobs(context.Background(), JobQuery{Query: "go"})

	assert.Equal(t, 1, second.TotalCount)
}

func TestSearchCandidates_DeniedForNonRecruiter(t *testing.T) {
	seeker := uuid.New()
	repo := newFakeSearchRepo()
	repo.roles[seeker] = types.RoleJobSeeker
	repo.candidates = []types.Candidate{{ID: uuid.New(), Name: "Ana"}}

	ranker := newTestRanker(repo)
	page := ranker.SearchCandidates(context.Background(), CandidateQuery{RecruiterID: seeker})

	assert.True(t, page.Denied)
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.TotalCount)
}

func TestSearchCandidates_RanksByRelevance(t *testing.T) {
	recruiter := uuid.New()
	repo := newFakeSearchRepo()
	repo.roles[recruiter] = types.RoleRecruiter
	repo.candidates = []types.Candidate{
		{ID: uuid.New(), Name: "Ana", Position: "Designer", Skills: []string{"Figma"}},
		{ID: uuid.New(), Name: "Go Expert", Position: "Engineer", Skills: []string{"Go"}},
		{ID: uuid.New(), Name: "Maria", Position: "Engineer", Skills: []string{"Go"}},
	}

	ranker := newTestRanker(repo)
	page := ranker.SearchCandidates(context.Background(), CandidateQuery{
		Query:       "go",
		RecruiterID: recruiter,
	})

	assert.False(t, page.Denied)
	require.Len(t, page.Results, 2)
	// Name match (3.0) outranks skills match (1.5).
	assert.Equal(t, "Go Expert", page.Results[0].Candidate.Name)
	assert.Equal(t, "Maria", page.Results[1].Candidate.Name)
	// Candidate results carry no popularity or freshness signal.
	assert.Zero(t, page.Results[0].Popularity)
	assert.Zero(t, page.Results[0].Freshness)
}

func TestSearchCandidates_RoleLookupFailureIsDenied(t *testing.T) {
	repo := newFakeSearchRepo()
	repo.err = assert.AnError

	ranker := newTestRanker(repo)
	page := ranker.SearchCandidates(context.Background(), CandidateQuery{RecruiterID: uuid.New()})

	assert.True(t, page.Denied)
	assert.Empty(t, page.Results)
}

func TestNormalizePage(t *testing.T) {
	limit, offset := normalizePage(0, -5)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, _ = normalizePage(10000, 0)
	assert.Equal(t, MaxLimit, limit)
}

func intPtr(v int) *int { return &v }
