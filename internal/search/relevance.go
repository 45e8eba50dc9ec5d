package search

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/talent-match/internal/types"
)

// Field weights for relevance scoring. Title and name matches dominate
// description and skill matches.
const (
	weightTitle        = 3.0
	weightCompany      = 2.0
	weightName         = 3.0
	weightPosition     = 2.0
	weightSkills       = 1.5
	weightDescription  = 1.0
	weightRequirements = 1.0
)

// field is one searchable text field with its relevance weight.
type field struct {
	text   string
	weight float64
}

// parseTerms splits a free-text query into lowercase terms.
func parseTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// jobFields lists the searchable fields of a posting, pre-lowercased.
func jobFields(job *types.JobPosting) []field {
	return []field{
		{strings.ToLower(job.Title), weightTitle},
		{strings.ToLower(job.Company), weightCompany},
		{strings.ToLower(strings.Join(job.Skills, " ")), weightSkills},
		{strings.ToLower(job.Requirements), weightRequirements},
		{strings.ToLower(job.Description), weightDescription},
	}
}

// candidateFields lists the searchable fields of a candidate profile.
func candidateFields(candidate *types.Candidate) []field {
	return []field{
		{strings.ToLower(candidate.Name), weightName},
		{strings.ToLower(candidate.Position), weightPosition},
		{strings.ToLower(strings.Join(candidate.Skills, " ")), weightSkills},
	}
}

// relevanceScore scores the fields against the query terms. Every term must
// match at least one field (AND conjunction); a failed conjunction returns
// ok=false. Earlier terms carry more weight than later ones. An empty query
// matches everything with a constant relevance.
func relevanceScore(terms []string, fields []field) (float64, bool) {
	if len(terms) == 0 {
		return 1.0, true
	}

	total := 0.0
	for i, term := range terms {
		termWeight := float64(len(terms)-i) / float64(len(terms))
		matched := false
		for _, f := range fields {
			if strings.Contains(f.text, term) {
				matched = true
				total += termWeight * f.weight
			}
		}
		if !matched {
			return 0, false
		}
	}
	return total, true
}

// freshnessTier buckets a posting's age for use as a ranking tie-breaker.
func freshnessTier(job *types.JobPosting) int {
	age := job.AgeDays(time.Now())
	switch {
	case age <= 7:
		return types.FreshnessTierWeek
	case age <= 30:
		return types.FreshnessTierMonth
	default:
		return types.FreshnessTierOld
	}
}

// orderResults sorts by relevance, then popularity, then freshness, all
// descending. Remaining ties keep repository order.
func orderResults(results []types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		if results[i].Popularity != results[j].Popularity {
			return results[i].Popularity > results[j].Popularity
		}
		return results[i].Freshness > results[j].Freshness
	})
}

// joinNormalized canonicalizes a skill list for cache keying.
func joinNormalized(skills []string) string {
	normalized := make([]string, 0, len(skills))
	for _, s := range skills {
		if n := types.NormalizeSkill(s); n != "" {
			normalized = append(normalized, n)
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
