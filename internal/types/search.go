package types

// Freshness tiers attached to search results. Higher is fresher.
const (
	FreshnessTierWeek  = 3 // created within the last 7 days
	FreshnessTierMonth = 2 // created within the last 30 days
	FreshnessTierOld   = 1
)

// Personalization annotates a job search result for a known candidate.
// RecommendationScore is left nil for the API layer to fill in from the
// recommendation engine if it wants the fused score as well.
type Personalization struct {
	SkillMatchPercent   float64  `json:"skill_match_percent"`
	MatchingSkills      []string `json:"matching_skills,omitempty"`
	MissingSkills       []string `json:"missing_skills,omitempty"`
	ExperienceMatch     bool     `json:"experience_match"`
	LocationMatch       bool     `json:"location_match"`
	SalaryMatch         bool     `json:"salary_match"`
	HasApplied          bool     `json:"has_applied"`
	HasViewed           bool     `json:"has_viewed"`
	RecommendationScore *float64 `json:"recommendation_score,omitempty"`
}

// SearchResult is one ranked search hit. Exactly one of Job or Candidate is
// set. Popularity and Freshness are only meaningful for job results.
type SearchResult struct {
	Job             *JobPosting      `json:"job,omitempty"`
	Candidate       *Candidate       `json:"candidate,omitempty"`
	Relevance       float64          `json:"relevance"`
	Popularity      int              `json:"popularity"`
	Freshness       int              `json:"freshness"`
	Personalization *Personalization `json:"personalization,omitempty"`
}
