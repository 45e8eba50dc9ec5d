package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/talent-match/internal/types"
)

// popular ranks postings created inside the trending window by raw
// interaction volume, normalized by the busiest posting in the window.
func (e *Engine) popular(ctx context.Context, candidate *types.Candidate, limit int) []types.RecommendationEntry {
	jobs, err := e.repo.FindJobs(ctx, types.JobFilter{
		ActiveOnly: true,
		MaxAgeDays: e.tuning.TrendingWindowDays,
		Limit:      e.tuning.JobPoolLimit,
	})
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidate.ID).Msg("trending job read failed")
		return nil
	}

	eligible := make([]types.JobPosting, 0, len(jobs))
	maxCount := 0
	for i := range jobs {
		if candidate.HasApplied(jobs[i].ID) {
			continue
		}
		eligible = append(eligible, jobs[i])
		if count := jobs[i].InteractionCount(); count > maxCount {
			maxCount = count
		}
	}
	if len(eligible) == 0 || maxCount == 0 {
		return nil
	}

	entries := make([]types.RecommendationEntry, 0, len(eligible))
	for i := range eligible {
		job := eligible[i]
		count := job.InteractionCount()
		entries = append(entries, types.RecommendationEntry{
			Job:     &job,
			Score:   float64(count) / float64(maxCount),
			Sources: []types.ScoreSource{types.SourcePopularity},
			Reasons: []string{fmt.Sprintf("Trending this week with %d interactions", count)},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
