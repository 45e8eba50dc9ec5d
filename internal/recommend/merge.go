package recommend

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/types"
)

// feed pairs one feeder's output with its fusion weight. Feeds are fused in
// slice order, which also fixes source priority for type classification.
type feed struct {
	entries []types.RecommendationEntry
	weight  float64
	source  types.ScoreSource
	kind    types.RecommendationType
}

// mergeJobs fuses the three job feeders. A feeder that did not return a job
// contributes zero for its term; the sum is not renormalized by which sources
// fired, so multi-source agreement is structurally favored.
func (e *Engine) mergeJobs(content, collaborative, popular []types.RecommendationEntry, limit int) []types.RecommendationEntry {
	return fuse([]feed{
		{content, e.tuning.FusionContentWeight, types.SourceContent, types.RecommendationContentBased},
		{collaborative, e.tuning.FusionCollaborativeWeight, types.SourceCollaborative, types.RecommendationCollaborative},
		{popular, e.tuning.FusionPopularityWeight, types.SourcePopularity, types.RecommendationTrending},
	}, limit, e.tuning.MaxReasons)
}

// mergeCandidates fuses the three candidate feeders with the same policy.
func (e *Engine) mergeCandidates(skill, experience, location []types.RecommendationEntry, limit int) []types.RecommendationEntry {
	return fuse([]feed{
		{skill, e.tuning.FusionSkillWeight, types.SourceSkill, types.RecommendationSkillMatch},
		{experience, e.tuning.FusionExperienceWeight, types.SourceExperience, types.RecommendationExperienceMatch},
		{location, e.tuning.FusionLocationWeight, types.SourceLocation, types.RecommendationLocationMatch},
	}, limit, e.tuning.MaxReasons)
}

// fuse groups feeder entries by subject id, sums weighted scores, unions
// sources and reasons, classifies each entry by the highest-priority source
// present, and returns the top entries sorted by fused score. The result
// never contains the same subject twice.
func fuse(feeds []feed, limit, maxReasons int) []types.RecommendationEntry {
	merged := make(map[uuid.UUID]*types.RecommendationEntry)
	var order []uuid.UUID

	for _, f := range feeds {
		for i := range f.entries {
			entry := &f.entries[i]
			id := subjectID(entry)

			target, ok := merged[id]
			if !ok {
				target = &types.RecommendationEntry{
					Job:       entry.Job,
					Candidate: entry.Candidate,
					Type:      types.RecommendationMixed,
				}
				merged[id] = target
				order = append(order, id)
			}

			target.Score += f.weight * entry.Score
			target.Sources = append(target.Sources, f.source)
			for _, reason := range entry.Reasons {
				if len(target.Reasons) < maxReasons {
					target.Reasons = append(target.Reasons, reason)
				}
			}
			if target.Type == types.RecommendationMixed {
				target.Type = f.kind
			}
		}
	}

	entries := make([]types.RecommendationEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *merged[id])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func subjectID(entry *types.RecommendationEntry) uuid.UUID {
	if entry.Job != nil {
		return entry.Job.ID
	}
	return entry.Candidate.ID
}
