package search

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/types"
)

// personalize attaches a per-candidate annotation block to each job result.
// A failed candidate read logs and leaves the results unannotated.
func (r *Ranker) personalize(ctx context.Context, candidateID uuid.UUID, results []types.SearchResult) {
	candidate, err := r.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		r.log.Error().Err(err).Stringer("candidate_id", candidateID).Msg("personalization read failed")
		return
	}
	if candidate == nil {
		return
	}

	skills := candidate.SkillSet()
	for i := range results {
		if results[i].Job != nil {
			results[i].Personalization = personalizationFor(candidate, skills, results[i].Job)
		}
	}
}

// personalizationFor computes the annotation block for one posting.
// RecommendationScore stays nil; the API layer can fill it in from the
// recommendation engine when it wants the fused score too.
func personalizationFor(candidate *types.Candidate, candidateSkills map[string]bool, job *types.JobPosting) *types.Personalization {
	var matching, missing []string
	for skill := range job.SkillSet() {
		if candidateSkills[skill] {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)

	percent := 0.0
	if total := len(matching) + len(missing); total > 0 {
		percent = float64(len(matching)) / float64(total) * 100
	}

	return &types.Personalization{
		SkillMatchPercent: percent,
		MatchingSkills:    matching,
		MissingSkills:     missing,
		ExperienceMatch:   job.Experience != "" && job.Experience == candidate.Experience,
		LocationMatch:     job.RemoteAllowed || types.LocationMatches(candidate.Location, job.Location),
		SalaryMatch:       salaryWithinRange(candidate.ExpectedSalary, job.SalaryMin, job.SalaryMax),
		HasApplied:        candidate.HasApplied(job.ID),
		HasViewed:         candidate.HasViewed(job.ID),
	}
}

func salaryWithinRange(expected, min, max *int) bool {
	if expected == nil || (min == nil && max == nil) {
		return false
	}
	if min != nil && *expected < *min {
		return false
	}
	if max != nil && *expected > *max {
		return false
	}
	return true
}
