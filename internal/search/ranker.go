// Package search ranks free-text and filtered search results with relevance
// scoring, popularity, freshness tiers, and optional per-candidate
// personalization.
package search

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/talent-match/internal/analytics"
	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/types"
)

// DefaultLimit and MaxLimit bound a search page.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// poolLimit bounds how many rows one search scans.
const poolLimit = 500

// Repository is the read-only store view the ranker consumes.
type Repository interface {
	FindJobs(ctx context.Context, filter types.JobFilter) ([]types.JobPosting, error)
	FindCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.Candidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	GetUserRole(ctx context.Context, id uuid.UUID) (types.Role, error)
}

// JobQuery is one job search invocation.
type JobQuery struct {
	Query       string
	Filter      types.JobFilter
	CandidateID *uuid.UUID // when set, results carry a personalization block
	Limit       int
	Offset      int
}

// CandidateQuery is one candidate search invocation. RecruiterID identifies
// the caller; non-recruiters are denied.
type CandidateQuery struct {
	Query       string
	Filter      types.CandidateFilter
	RecruiterID uuid.UUID
	Limit       int
	Offset      int
}

// Page is the typed outcome of a search call. Denied means the caller failed
// the recruiter guard; TotalCount is computed before pagination.
type Page struct {
	Denied     bool                 `json:"denied,omitempty"`
	Results    []types.SearchResult `json:"results"`
	TotalCount int                  `json:"total_count"`
	HasNext    bool                 `json:"has_next"`
}

// Ranker executes searches against a repository snapshot. Stateless; each
// call is a pure computation plus cache/analytics side writes.
type Ranker struct {
	repo      Repository
	cache     cache.Facade
	analytics analytics.Recorder
	log       zerolog.Logger
}

// NewRanker creates a search ranker.
func NewRanker(repo Repository, facade cache.Facade, recorder analytics.Recorder, logger zerolog.Logger) *Ranker {
	return &Ranker{repo: repo, cache: facade, analytics: recorder, log: logger}
}

// SearchJobs runs a free-text plus filtered job search. Read failures degrade
// to an empty page.
func (r *Ranker) SearchJobs(ctx context.Context, q JobQuery) *Page {
	q.Limit, q.Offset = normalizePage(q.Limit, q.Offset)

	subject := "anon"
	if q.CandidateID != nil {
		subject = q.CandidateID.String()
	}
	key := cache.Key("search_jobs", subject, jobQueryParams(q))
	if page, ok := r.cachedPage(ctx, key); ok {
		return page
	}

	filter := q.Filter
	filter.ActiveOnly = true
	filter.Limit = poolLimit
	jobs, err := r.repo.FindJobs(ctx, filter)
	if err != nil {
		r.log.Error().Err(err).Str("query", q.Query).Msg("job search read failed")
		return &Page{Results: []types.SearchResult{}}
	}

	terms := parseTerms(q.Query)
	results := make([]types.SearchResult, 0, len(jobs))
	for i := range jobs {
		job := jobs[i]
		relevance, ok := relevanceScore(terms, jobFields(&job))
		if !ok {
			continue
		}
		results = append(results, types.SearchResult{
			Job:        &job,
			Relevance:  relevance,
			Popularity: job.InteractionCount(),
			Freshness:  freshnessTier(&job),
		})
	}

	orderResults(results)

	total := len(results)
	results = paginate(results, q.Offset, q.Limit)

	if q.CandidateID != nil {
		r.personalize(ctx, *q.CandidateID, results)
	}

	page := &Page{
		Results:    results,
		TotalCount: total,
		HasNext:    q.Offset+q.Limit < total,
	}

	r.storePage(ctx, key, page)
	r.record(ctx, q.CandidateID, "search_jobs", q.Query, jobQueryParams(q), total)
	return page
}

// SearchCandidates runs a candidate search on behalf of a recruiter. Callers
// who are not recruiters get a denied page with zero results.
func (r *Ranker) SearchCandidates(ctx context.Context, q CandidateQuery) *Page {
	q.Limit, q.Offset = normalizePage(q.Limit, q.Offset)

	role, err := r.repo.GetUserRole(ctx, q.RecruiterID)
	if err != nil {
		r.log.Error().Err(err).Stringer("recruiter_id", q.RecruiterID).Msg("role lookup failed")
		return &Page{Denied: true, Results: []types.SearchResult{}}
	}
	if role != types.RoleRecruiter {
		return &Page{Denied: true, Results: []types.SearchResult{}}
	}

	key := cache.Key("search_candidates", q.RecruiterID.String(), candidateQueryParams(q))
	if page, ok := r.cachedPage(ctx, key); ok {
		return page
	}

	filter := q.Filter
	filter.Limit = poolLimit
	candidates, err := r.repo.FindCandidates(ctx, filter)
	if err != nil {
		r.log.Error().Err(err).Str("query", q.Query).Msg("candidate search read failed")
		return &Page{Results: []types.SearchResult{}}
	}

	terms := parseTerms(q.Query)
	results := make([]types.SearchResult, 0, len(candidates))
	for i := range candidates {
		candidate := candidates[i]
		relevance, ok := relevanceScore(terms, candidateFields(&candidate))
		if !ok {
			continue
		}
		results = append(results, types.SearchResult{
			Candidate: &candidate,
			Relevance: relevance,
		})
	}

	orderResults(results)

	total := len(results)
	results = paginate(results, q.Offset, q.Limit)

	page := &Page{
		Results:    results,
		TotalCount: total,
		HasNext:    q.Offset+q.Limit < total,
	}

	r.storePage(ctx, key, page)
	r.record(ctx, &q.RecruiterID, "search_candidates", q.Query, candidateQueryParams(q), total)
	return page
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginate(results []types.SearchResult, offset, limit int) []types.SearchResult {
	if offset >= len(results) {
		return []types.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func (r *Ranker) cachedPage(ctx context.Context, key string) (*Page, bool) {
	payload, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var page Page
	if err := json.Unmarshal(payload, &page); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache payload corrupt")
		return nil, false
	}
	return &page, true
}

func (r *Ranker) storePage(ctx context.Context, key string, page *Page) {
	payload, err := json.Marshal(page)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := r.cache.Set(ctx, key, payload, cache.SearchTTL); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (r *Ranker) record(ctx context.Context, subjectID *uuid.UUID, kind, query string, filters map[string]string, resultCount int) {
	subject := uuid.Nil
	if subjectID != nil {
		subject = *subjectID
	}
	if err := r.analytics.Record(ctx, subject, kind, query, filters, resultCount); err != nil {
		r.log.Warn().Err(err).Str("kind", kind).Msg("analytics recording failed")
	}
}

// jobQueryParams flattens a job query into the normalized parameter set used
// for cache keying.
func jobQueryParams(q JobQuery) map[string]string {
	params := map[string]string{
		"q":      q.Query,
		"limit":  strconv.Itoa(q.Limit),
		"offset": strconv.Itoa(q.Offset),
	}
	f := q.Filter
	if f.Location != "" {
		params["location"] = f.Location
	}
	if f.JobType != "" {
		params["job_type"] = f.JobType
	}
	if f.Experience != "" {
		params["experience"] = string(f.Experience)
	}
	if f.SalaryMin != nil {
		params["salary_min"] = strconv.Itoa(*f.SalaryMin)
	}
	if f.SalaryMax != nil {
		params["salary_max"] = strconv.Itoa(*f.SalaryMax)
	}
	if len(f.Skills) > 0 {
		params["skills"] = joinNormalized(f.Skills)
	}
	if f.Company != "" {
		params["company"] = f.Company
	}
	if f.MaxAgeDays > 0 {
		params["max_age_days"] = strconv.Itoa(f.MaxAgeDays)
	}
	if f.RemoteOnly {
		params["remote_only"] = "1"
	}
	return params
}

func candidateQueryParams(q CandidateQuery) map[string]string {
	params := map[string]string{
		"q":      q.Query,
		"limit":  strconv.Itoa(q.Limit),
		"offset": strconv.Itoa(q.Offset),
	}
	f := q.Filter
	if f.Location != "" {
		params["location"] = f.Location
	}
	if f.Experience != "" {
		params["experience"] = string(f.Experience)
	}
	if len(f.Skills) > 0 {
		params["skills"] = joinNormalized(f.Skills)
	}
	return params
}
