package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

// skillMatched scores each candidate by the fraction of the posting's required
// skills they cover, keeping those at or above the minimum.
func (e *Engine) skillMatched(job *types.JobPosting, pool []types.Candidate) []types.RecommendationEntry {
	required := job.SkillSet()
	if len(required) == 0 {
		return nil
	}

	entries := make([]types.RecommendationEntry, 0, len(pool))
	for i := range pool {
		candidate := pool[i]
		candidateSkills := candidate.SkillSet()
		score, _ := skillOverlap(candidateSkills, required)
		if score < e.tuning.SkillMatchMinScore {
			continue
		}
		matched := matchedDisplay(candidateSkills, job.Skills)
		entries = append(entries, types.RecommendationEntry{
			Candidate: &candidate,
			Score:     score,
			Sources:   []types.ScoreSource{types.SourceSkill},
			Reasons: []string{fmt.Sprintf("Covers %d of %d required skills: %s",
				len(matched), len(required), strings.Join(matched, ", "))},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// experienceMatched scores candidates by tier distance to the posting's
// target tier. Every candidate gets at least the distant score.
func (e *Engine) experienceMatched(job *types.JobPosting, pool []types.Candidate) []types.RecommendationEntry {
	entries := make([]types.RecommendationEntry, 0, len(pool))
	for i := range pool {
		candidate := pool[i]
		score, reason := e.scoreExperience(job, &candidate)
		entries = append(entries, types.RecommendationEntry{
			Candidate: &candidate,
			Score:     score,
			Sources:   []types.ScoreSource{types.SourceExperience},
			Reasons:   []string{reason},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

func (e *Engine) scoreExperience(job *types.JobPosting, candidate *types.Candidate) (float64, string) {
	t := e.tuning
	switch job.Experience.Distance(candidate.Experience) {
	case 0:
		return t.ExperienceExactScore, fmt.Sprintf("Experience level matches exactly (%s)", candidate.Experience)
	case 1:
		return t.ExperienceAdjacentScore, fmt.Sprintf("Experience level is adjacent (%s)", candidate.Experience)
	case 2:
		return t.ExperienceTwoApartScore, fmt.Sprintf("Experience level is close (%s)", candidate.Experience)
	default:
		return t.ExperienceDistantScore, "Experience level differs from the posting"
	}
}

// locationMatched scores candidates by geographic fit: everyone qualifies for
// a remote-allowed posting, otherwise only candidates whose location matches.
func (e *Engine) locationMatched(job *types.JobPosting, pool []types.Candidate) []types.RecommendationEntry {
	entries := make([]types.RecommendationEntry, 0, len(pool))
	for i := range pool {
		candidate := pool[i]

		var score float64
		var reason string
		switch {
		case job.RemoteAllowed:
			score = e.tuning.RemoteAvailabilityScore
			reason = "Available for remote work"
		case types.LocationMatches(candidate.Location, job.Location):
			score = e.tuning.LocationMatchScore
			reason = fmt.Sprintf("Located in %s", candidate.Location)
		default:
			continue
		}

		entries = append(entries, types.RecommendationEntry{
			Candidate: &candidate,
			Score:     score,
			Sources:   []types.ScoreSource{types.SourceLocation},
			Reasons:   []string{reason},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
