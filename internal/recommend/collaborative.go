package recommend

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/similarity"
	"github.com/jonathan/talent-match/internal/types"
)

// collaborative recommends jobs that candidates with similar profiles applied
// to or viewed, weighted by interaction kind and normalized by the largest
// aggregate among the postings that survive exclusion.
func (e *Engine) collaborative(ctx context.Context, candidate *types.Candidate, limit int) []types.RecommendationEntry {
	similar := e.similarCandidates(ctx, candidate)
	if len(similar) == 0 {
		return nil
	}

	similarIDs := make([]uuid.UUID, len(similar))
	for i, s := range similar {
		similarIDs[i] = s.Candidate.ID
	}

	applied, err := e.repo.CountInteractions(ctx, similarIDs, types.InteractionApplied)
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidate.ID).Msg("application aggregate read failed")
		return nil
	}
	viewed, err := e.repo.CountInteractions(ctx, similarIDs, types.InteractionViewed)
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidate.ID).Msg("view aggregate read failed")
		return nil
	}

	aggregate := make(map[uuid.UUID]float64)
	for jobID, count := range applied {
		aggregate[jobID] += e.tuning.AppliedInteractionWeight * float64(count)
	}
	for jobID, count := range viewed {
		aggregate[jobID] += e.tuning.ViewedInteractionWeight * float64(count)
	}
	if len(aggregate) == 0 {
		return nil
	}

	jobIDs := make([]uuid.UUID, 0, len(aggregate))
	for jobID := range aggregate {
		if candidate.HasApplied(jobID) {
			continue
		}
		jobIDs = append(jobIDs, jobID)
	}
	if len(jobIDs) == 0 {
		return nil
	}

	jobs, err := e.repo.GetJobs(ctx, jobIDs)
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidate.ID).Msg("collaborative job read failed")
		return nil
	}

	// Both exclusions happen before normalization: an inactive posting must
	// not set the maximum and depress every surviving score.
	live := make([]types.JobPosting, 0, len(jobs))
	maxScore := 0.0
	for i := range jobs {
		if !jobs[i].Active {
			continue
		}
		live = append(live, jobs[i])
		if score := aggregate[jobs[i].ID]; score > maxScore {
			maxScore = score
		}
	}
	if maxScore == 0 {
		return nil
	}

	entries := make([]types.RecommendationEntry, 0, len(live))
	for i := range live {
		job := live[i]
		entries = append(entries, types.RecommendationEntry{
			Job:     &job,
			Score:   aggregate[job.ID] / maxScore,
			Sources: []types.ScoreSource{types.SourceCollaborative},
			Reasons: []string{"Candidates with a similar profile showed interest in this job"},
		})
	}

	// Deterministic order: by score, ties by job id.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Job.ID.String() < entries[j].Job.ID.String()
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// similarCandidates ranks the candidate pool by blended Jaccard similarity
// (skills plus applied-job traits) against the target.
func (e *Engine) similarCandidates(ctx context.Context, candidate *types.Candidate) []similarity.Scored {
	pool, err := e.repo.ListCandidates(ctx, e.tuning.CandidatePoolLimit)
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidate.ID).Msg("candidate pool read failed")
		return nil
	}
	if len(pool) == 0 {
		return nil
	}

	// One batched job fetch covers the applied sets of the whole pool.
	jobsByID := e.appliedJobIndex(ctx, candidate, pool)

	target := similarity.NewVector(candidate, lookupJobs(jobsByID, candidate.AppliedJobIDs))
	others := make([]similarity.Vector, 0, len(pool))
	for i := range pool {
		other := &pool[i]
		others = append(others, similarity.NewVector(other, lookupJobs(jobsByID, other.AppliedJobIDs)))
	}

	return similarity.TopSimilar(target, others, similarity.Options{
		SkillWeight: e.tuning.SimilaritySkillWeight,
		TraitWeight: e.tuning.SimilarityTraitWeight,
		MinScore:    e.tuning.SimilarityMinScore,
		Limit:       e.tuning.SimilarCandidateLimit,
	})
}

// appliedJobIndex fetches every posting applied to by the target or the pool,
// keyed by id. Read failures degrade to an empty index, which only weakens
// the trait half of the similarity blend.
func (e *Engine) appliedJobIndex(ctx context.Context, candidate *types.Candidate, pool []types.Candidate) map[uuid.UUID]*types.JobPosting {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	collect := func(jobIDs []uuid.UUID) {
		for _, id := range jobIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	collect(candidate.AppliedJobIDs)
	for i := range pool {
		collect(pool[i].AppliedJobIDs)
	}
	if len(ids) == 0 {
		return nil
	}

	jobs, err := e.repo.GetJobs(ctx, ids)
	if err != nil {
		e.log.Error().Err(err).Msg("applied job index read failed")
		return nil
	}
	index := make(map[uuid.UUID]*types.JobPosting, len(jobs))
	for i := range jobs {
		index[jobs[i].ID] = &jobs[i]
	}
	return index
}

func lookupJobs(index map[uuid.UUID]*types.JobPosting, ids []uuid.UUID) []*types.JobPosting {
	jobs := make([]*types.JobPosting, 0, len(ids))
	for _, id := range ids {
		if job, ok := index[id]; ok {
			jobs = append(jobs, job)
		}
	}
	return jobs
}
