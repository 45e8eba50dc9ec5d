package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/recommend"
	"github.com/jonathan/talent-match/internal/search"
	"github.com/jonathan/talent-match/internal/types"
)

type fakeRecommender struct {
	jobsResult       *recommend.Result
	candidatesResult *recommend.Result
	gotLimit         int
	gotSubject       uuid.UUID
}

func (f *fakeRecommender) RecommendJobs(_ context.Context, candidateID uuid.UUID, limit int) *recommend.Result {
	f.gotSubject = candidateID
	f.gotLimit = limit
	return f.jobsResult
}

func (f *fakeRecommender) RecommendCandidates(_ context.Context, jobID uuid.UUID, limit int) *recommend.Result {
	f.gotSubject = jobID
	f.gotLimit = limit
	return f.candidatesResult
}

type fakeSearcher struct {
	jobsPage       *search.Page
	candidatesPage *search.Page
	gotJobQuery    search.JobQuery
	gotCandQuery   search.CandidateQuery
}

func (f *fakeSearcher) SearchJobs(_ context.Context, q search.JobQuery) *search.Page {
	f.gotJobQuery = q
	return f.jobsPage
}

func (f *fakeSearcher) SearchCandidates(_ context.Context, q search.CandidateQuery) *search.Page {
	f.gotCandQuery = q
	return f.candidatesPage
}

// newTestServer wires fakes behind the real router and auth middleware.
func newTestServer(recommender Recommender, searcher Searcher) *Server {
	return &Server{
		recommender: recommender,
		searcher:    searcher,
		jwtService:  testJWTService(),
		validator:   validator.New(),
		log:         zerolog.Nop(),
	}
}

// bearerRequest builds a request carrying a freshly signed token for the
// given identity.
func bearerRequest(t *testing.T, method, target string, userID uuid.UUID, role types.Role) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	token, err := testJWTService().GenerateToken(userID, role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHandleRecommendJobs_ReturnsEntries(t *testing.T) {
	candidateID := uuid.New()
	recommender := &fakeRecommender{jobsResult: &recommend.Result{
		Entries: []types.RecommendationEntry{{
			Job:   &types.JobPosting{ID: uuid.New(), Title: "Backend Engineer"},
			Score: 0.8,
			Type:  types.RecommendationContentBased,
		}},
	}}
	s := newTestServer(recommender, nil)

	handler := s.routes()
	req := bearerRequest(t, "GET", "/recommendations/jobs?limit=5", candidateID, types.RoleJobSeeker)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, candidateID, recommender.gotSubject)
	assert.Equal(t, 5, recommender.gotLimit)

	var body recommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Backend Engineer", body.Recommendations[0].Job.Title)
}

func TestHandleRecommendJobs_DeniedMapsTo403(t *testing.T) {
	recommender := &fakeRecommender{jobsResult: &recommend.Result{Denied: true}}
	s := newTestServer(recommender, nil)

	handler := s.routes()
	req := bearerRequest(t, "GET", "/recommendations/jobs", uuid.New(), types.RoleRecruiter)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleRecommendJobs_InvalidLimit(t *testing.T) {
	s := newTestServer(&fakeRecommender{}, nil)

	handler := s.routes()
	for _, target := range []string{
		"/recommendations/jobs?limit=abc",
		"/recommendations/jobs?limit=0",
		"/recommendations/jobs?limit=500",
	} {
		req := bearerRequest(t, "GET", target, uuid.New(), types.RoleJobSeeker)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
		assert.Contains(t, strings.ToLower(rec.Body.String()), "limit", "target %s", target)
	}
}

func TestHandleRecommendJobs_RequiresAuth(t *testing.T) {
	s := newTestServer(&fakeRecommender{}, nil)

	handler := s.routes()
	req := httptest.NewRequest("GET", "/recommendations/jobs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleRecommendCandidates_RecruiterOnly(t *testing.T) {
	jobID := uuid.New()
	recommender := &fakeRecommender{candidatesResult: &recommend.Result{
		Entries: []types.RecommendationEntry{{
			Candidate: &types.Candidate{ID: uuid.New(), Name: "Ana"},
			Score:     0.9,
			Type:      types.RecommendationSkillMatch,
		}},
	}}
	s := newTestServer(recommender, nil)
	handler := s.routes()

	// Recruiters get results.
	req := bearerRequest(t, "GET", "/jobs/"+jobID.String()+"/candidates", uuid.New(), types.RoleRecruiter)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jobID, recommender.gotSubject)

	// Job seekers are rejected before the engine runs.
	req = bearerRequest(t, "GET", "/jobs/"+jobID.String()+"/candidates", uuid.New(), types.RoleJobSeeker)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleRecommendCandidates_InvalidJobID(t *testing.T) {
	s := newTestServer(&fakeRecommender{}, nil)
	handler := s.routes()

	req := bearerRequest(t, "GET", "/jobs/not-a-uuid/candidates", uuid.New(), types.RoleRecruiter)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "valid job id")
}

func TestHandleSearchJobs_AnonymousQuery(t *testing.T) {
	searcher := &fakeSearcher{jobsPage: &search.Page{
		Results:    []types.SearchResult{{Job: &types.JobPosting{Title: "Go Engineer"}, Relevance: 2.0}},
		TotalCount: 1,
	}}
	s := newTestServer(nil, searcher)
	handler := s.routes()

	req := httptest.NewRequest("GET", "/search/jobs?q=go&location=Berlin&remote=true&salary_min=70000&skills=Go,Python&max_age_days=7&limit=10&offset=5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "go", searcher.gotJobQuery.Query)
	assert.Equal(t, "Berlin", searcher.gotJobQuery.Filter.Location)
	assert.True(t, searcher.gotJobQuery.Filter.RemoteOnly)
	require.NotNil(t, searcher.gotJobQuery.Filter.SalaryMin)
	assert.Equal(t, 70000, *searcher.gotJobQuery.Filter.SalaryMin)
	assert.Equal(t, []string{"Go", "Python"}, searcher.gotJobQuery.Filter.Skills)
	assert.Equal(t, 7, searcher.gotJobQuery.Filter.MaxAgeDays)
	assert.Equal(t, 10, searcher.gotJobQuery.Limit)
	assert.Equal(t, 5, searcher.gotJobQuery.Offset)
	assert.Nil(t, searcher.gotJobQuery.CandidateID)
}

func TestHandleSearchJobs_AuthenticatedCandidateIsPassedThrough(t *testing.T) {
	candidateID := uuid.New()
	searcher := &fakeSearcher{jobsPage: &search.Page{}}
	s := newTestServer(nil, searcher)
	handler := s.routes()

	req := bearerRequest(t, "GET", "/search/jobs?q=go", candidateID, types.RoleJobSeeker)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, searcher.gotJobQuery.CandidateID)
	assert.Equal(t, candidateID, *searcher.gotJobQuery.CandidateID)
}

func TestHandleSearchJobs_InvalidExperienceLevel(t *testing.T) {
	s := newTestServer(nil, &fakeSearcher{jobsPage: &search.Page{}})
	handler := s.routes()

	req := httptest.NewRequest("GET", "/search/jobs?experience_level=wizard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearchJobs_InvalidMaxAgeDays(t *testing.T) {
	s := newTestServer(nil, &fakeSearcher{jobsPage: &search.Page{}})
	handler := s.routes()

	for _, target := range []string{
		"/search/jobs?max_age_days=abc",
		"/search/jobs?max_age_days=0",
	} {
		req := httptest.NewRequest("GET", target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestHandleSearchCandidates_DeniedMapsTo403(t *testing.T) {
	searcher := &fakeSearcher{candidatesPage: &search.Page{Denied: true}}
	s := newTestServer(nil, searcher)
	handler := s.routes()

	req := bearerRequest(t, "GET", "/search/candidates?q=go", uuid.New(), types.RoleJobSeeker)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleSearchCandidates_PassesRecruiterID(t *testing.T) {
	recruiterID := uuid.New()
	searcher := &fakeSearcher{candidatesPage: &search.Page{
		Results:    []types.SearchResult{{Candidate: &types.Candidate{Name: "Ana"}, Relevance: 1.5}},
		TotalCount: 1,
	}}
	s := newTestServer(nil, searcher)
	handler := s.routes()

	req := bearerRequest(t, "GET", "/search/candidates?q=go&skills=Go", recruiterID, types.RoleRecruiter)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, recruiterID, searcher.gotCandQuery.RecruiterID)
	assert.Equal(t, []string{"Go"}, searcher.gotCandQuery.Filter.Skills)

	var page search.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalCount)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)
	handler := s.routes()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
