// Package recommend implements the recommendation engine: three independent
// feeder recommenders per direction (jobs for a candidate, candidates for a
// posting) whose scores are fused into one ranked, deduplicated list.
package recommend

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-match/internal/analytics"
	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/types"
)

// DefaultLimit is the entry count returned when the caller does not ask for a
// specific limit.
const DefaultLimit = 10

// Result is the typed outcome of a recommendation call. Denied means the
// caller failed the engine's authorization guard; it is a result, not an
// error, so the API layer can render a 403 without a stack unwind.
type Result struct {
	Denied  bool                        `json:"denied,omitempty"`
	Entries []types.RecommendationEntry `json:"entries"`
}

// Engine fuses the feeder recommenders. All collaborators are injected; the
// engine holds no mutable state and every call is a pure function of the
// repository snapshot, so concurrent invocations are safe.
type Engine struct {
	repo      SignalRepository
	cache     cache.Facade
	analytics analytics.Recorder
	log       zerolog.Logger
	tuning    Tuning
}

// NewEngine creates a recommendation engine.
func NewEngine(repo SignalRepository, facade cache.Facade, recorder analytics.Recorder, logger zerolog.Logger, tuning Tuning) *Engine {
	return &Engine{
		repo:      repo,
		cache:     facade,
		analytics: recorder,
		log:       logger,
		tuning:    tuning,
	}
}

// RecommendJobs produces personalized job recommendations for a candidate.
// Repository failures degrade to an empty list; a subject who is not a job
// seeker gets a denied result.
func (e *Engine) RecommendJobs(ctx context.Context, candidateID uuid.UUID, limit int) *Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	role, err := e.repo.GetUserRole(ctx, candidateID)
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidateID).Msg("role lookup failed")
		return &Result{Entries: []types.RecommendationEntry{}}
	}
	if role != types.RoleJobSeeker {
		return &Result{Denied: true, Entries: []types.RecommendationEntry{}}
	}

	key := cache.Key("recommend_jobs", candidateID.String(), map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if entries, ok := e.cachedEntries(ctx, key); ok {
		return &Result{Entries: entries}
	}

	candidate, err := e.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidateID).Msg("candidate read failed")
		return &Result{Entries: []types.RecommendationEntry{}}
	}
	if candidate == nil {
		return &Result{Entries: []types.RecommendationEntry{}}
	}

	// The three feeders are independent and share no mutable state; the merge
	// runs strictly after all of them complete.
	var content, collaborative, popular []types.RecommendationEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content = e.contentBased(gctx, candidate, limit)
		return nil
	})
	g.Go(func() error {
		collaborative = e.collaborative(gctx, candidate, limit)
		return nil
	})
	g.Go(func() error {
		popular = e.popular(gctx, candidate, limit)
		return nil
	})
	_ = g.Wait() // feeders degrade internally and never return errors

	entries := e.mergeJobs(content, collaborative, popular, limit)

	e.storeEntries(ctx, key, entries, cache.JobRecommendationTTL)
	e.record(ctx, candidateID, "recommend_jobs", "", map[string]string{
		"limit": strconv.Itoa(limit),
	}, len(entries))

	return &Result{Entries: entries}
}

// RecommendCandidates produces candidate recommendations for a job posting,
// for a recruiter reviewing it.
func (e *Engine) RecommendCandidates(ctx context.Context, jobID uuid.UUID, limit int) *Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cache.Key("recommend_candidates", jobID.String(), map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if entries, ok := e.cachedEntries(ctx, key); ok {
		return &Result{Entries: entries}
	}

	job, err := e.repo.GetJob(ctx, jobID)
	if err != nil {
		e.log.Error().Err(err).Stringer("job_id", jobID).Msg("job read failed")
		return &Result{Entries: []types.RecommendationEntry{}}
	}
	if job == nil {
		return &Result{Entries: []types.RecommendationEntry{}}
	}

	pool, err := e.repo.FindCandidates(ctx, types.CandidateFilter{Limit: e.tuning.CandidatePoolLimit})
	if err != nil {
		e.log.Error().Err(err).Stringer("job_id", jobID).Msg("candidate pool read failed")
		return &Result{Entries: []types.RecommendationEntry{}}
	}

	// Candidates who already applied are excluded from all three feeders.
	eligible := make([]types.Candidate, 0, len(pool))
	for i := range pool {
		if !pool[i].HasApplied(job.ID) {
			eligible = append(eligible, pool[i])
		}
	}

	entries := e.mergeCandidates(
		e.skillMatched(job, eligible),
		e.experienceMatched(job, eligible),
		e.locationMatched(job, eligible),
		limit,
	)

	e.storeEntries(ctx, key, entries, cache.CandidateRecommendationTTL)
	e.record(ctx, jobID, "recommend_candidates", "", map[string]string{
		"limit": strconv.Itoa(limit),
	}, len(entries))

	return &Result{Entries: entries}
}

// InvalidateCandidate drops every cached recommendation for a candidate.
// The profile subsystem calls this after an edit that changes the signals.
func (e *Engine) InvalidateCandidate(ctx context.Context, candidateID uuid.UUID) int {
	deleted, err := e.cache.DeletePattern(ctx, cache.SubjectPrefix("recommend_jobs", candidateID.String()))
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidateID).Msg("cache invalidation failed")
	}
	return deleted
}

// cachedEntries reads a serialized entry list, treating backend errors and
// corrupt payloads as misses.
func (e *Engine) cachedEntries(ctx context.Context, key string) ([]types.RecommendationEntry, bool) {
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var entries []types.RecommendationEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("cache payload corrupt")
		return nil, false
	}
	return entries, true
}

// storeEntries writes a computed entry list unconditionally; last writer wins.
func (e *Engine) storeEntries(ctx context.Context, key string, entries []types.RecommendationEntry, ttl time.Duration) {
	payload, err := json.Marshal(entries)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := e.cache.Set(ctx, key, payload, ttl); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// record sends one analytics event; failures are logged and swallowed.
func (e *Engine) record(ctx context.Context, subjectID uuid.UUID, kind, query string, filters map[string]string, resultCount int) {
	if err := e.analytics.Record(ctx, subjectID, kind, query, filters, resultCount); err != nil {
		e.log.Warn().Err(err).Str("kind", kind).Msg("analytics recording failed")
	}
}
