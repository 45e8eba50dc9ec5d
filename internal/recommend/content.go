package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/talent-match/internal/types"
)

// contentBased scores the candidate against each eligible posting using the
// weighted sub-scores from the tuning and keeps matches above the minimum.
func (e *Engine) contentBased(ctx context.Context, candidate *types.Candidate, limit int) []types.RecommendationEntry {
	jobs, err := e.repo.FindJobs(ctx, types.JobFilter{
		ActiveOnly: true,
		Limit:      e.tuning.JobPoolLimit,
	})
	if err != nil {
		e.log.Error().Err(err).Stringer("candidate_id", candidate.ID).Msg("content-based job read failed")
		return nil
	}

	candidateSkills := candidate.SkillSet()
	now := time.Now()

	entries := make([]types.RecommendationEntry, 0, len(jobs))
	for i := range jobs {
		job := jobs[i]
		if !e.eligibleForContent(candidate, &job) {
			continue
		}
		score, reason := e.scoreJobContent(candidate, candidateSkills, &job, now)
		if score <= e.tuning.ContentMinScore {
			continue
		}
		entries = append(entries, types.RecommendationEntry{
			Job:     &job,
			Score:   score,
			Sources: []types.ScoreSource{types.SourceContent},
			Reasons: []string{reason},
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

// eligibleForContent applies the content-based pre-filter: active, not yet
// applied to, tier-compatible, and reachable (location match or remote).
func (e *Engine) eligibleForContent(candidate *types.Candidate, job *types.JobPosting) bool {
	if !job.Active || candidate.HasApplied(job.ID) {
		return false
	}
	if job.Experience != "" && job.Experience != candidate.Experience {
		return false
	}
	return job.RemoteAllowed || types.LocationMatches(candidate.Location, job.Location)
}

// scoreJobContent computes the weighted content score and a short reason.
func (e *Engine) scoreJobContent(candidate *types.Candidate, candidateSkills map[string]bool, job *types.JobPosting, now time.Time) (float64, string) {
	t := e.tuning

	skillScore, _ := skillOverlap(candidateSkills, job.SkillSet())

	experienceScore := 0.0
	if job.Experience != "" && job.Experience == candidate.Experience {
		experienceScore = 1.0
	}

	locationScore := 0.0
	if job.RemoteAllowed || types.LocationMatches(candidate.Location, job.Location) {
		locationScore = 1.0
	}

	salaryScore := salaryFit(candidate.ExpectedSalary, job.SalaryMin, job.SalaryMax, t.SalaryAboveRangeScore)

	freshness := freshnessScore(job.AgeDays(now), t.FreshnessHorizonDays)

	score := t.ContentSkillWeight*skillScore +
		t.ContentExperienceWeight*experienceScore +
		t.ContentLocationWeight*locationScore +
		t.ContentSalaryWeight*salaryScore +
		t.ContentFreshnessWeight*freshness

	return clamp01(score), contentReason(matchedDisplay(candidateSkills, job.Skills), job, locationScore > 0, salaryScore)
}

// matchedDisplay lists the posting's skills the candidate covers, keeping the
// posting's order and original casing for the reason string.
func matchedDisplay(candidateSkills map[string]bool, jobSkills []string) []string {
	seen := make(map[string]bool, len(jobSkills))
	var matched []string
	for _, skill := range jobSkills {
		normalized := types.NormalizeSkill(skill)
		if normalized == "" || seen[normalized] || !candidateSkills[normalized] {
			continue
		}
		seen[normalized] = true
		matched = append(matched, strings.TrimSpace(skill))
	}
	return matched
}

// skillOverlap returns the fraction of required skills the candidate covers
// and the matched normalized names in alphabetical order. An empty
// requirement set scores zero.
func skillOverlap(candidateSkills, required map[string]bool) (float64, []string) {
	if len(required) == 0 {
		return 0.0, nil
	}
	var matched []string
	for skill := range required {
		if candidateSkills[skill] {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)
	return float64(len(matched)) / float64(len(required)), matched
}

// salaryFit scores the candidate's expectation against the posting's range:
// full credit inside the range, partial credit above it, none below or when
// either side has no salary data.
func salaryFit(expected, min, max *int, aboveRangeScore float64) float64 {
	if expected == nil || (min == nil && max == nil) {
		return 0.0
	}
	lo, hi := 0, 0
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	switch {
	case *expected >= lo && (max == nil || *expected <= hi):
		return 1.0
	case *expected >= lo:
		return aboveRangeScore
	default:
		return 0.0
	}
}

// freshnessScore decays linearly from 1 at age zero to 0 at the horizon.
func freshnessScore(ageDays, horizonDays float64) float64 {
	if ageDays <= 0 {
		return 1.0
	}
	if ageDays >= horizonDays {
		return 0.0
	}
	return 1.0 - ageDays/horizonDays
}

// contentReason builds the human-readable explanation for a content match.
func contentReason(matchedSkills []string, job *types.JobPosting, reachable bool, salaryScore float64) string {
	var parts []string
	if len(matchedSkills) > 0 {
		parts = append(parts, fmt.Sprintf("Matches your skills: %s", strings.Join(matchedSkills, ", ")))
	}
	if job.RemoteAllowed {
		parts = append(parts, "Remote work available")
	} else if reachable {
		parts = append(parts, fmt.Sprintf("Located in %s", job.Location))
	}
	if salaryScore >= 1.0 {
		parts = append(parts, "Salary in your expected range")
	}
	if len(parts) == 0 {
		parts = append(parts, "Recently posted position")
	}
	return strings.Join(parts, ". ")
}

// clamp01 bounds a score to [0,1].
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
