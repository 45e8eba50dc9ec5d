package types

// ScoreSource identifies which feeder recommender contributed to an entry.
type ScoreSource string

// Job-side feeder sources.
const (
	SourceContent       ScoreSource = "content"
	SourceCollaborative ScoreSource = "collaborative"
	SourcePopularity    ScoreSource = "popularity"
)

// Candidate-side feeder sources.
const (
	SourceSkill      ScoreSource = "skill"
	SourceExperience ScoreSource = "experience"
	SourceLocation   ScoreSource = "location"
)

// RecommendationType is the closed classification of a merged entry, derived
// from whichever source dominates.
type RecommendationType string

// Recommendation types.
const (
	RecommendationContentBased    RecommendationType = "content_based"
	RecommendationCollaborative   RecommendationType = "collaborative"
	RecommendationTrending        RecommendationType = "trending"
	RecommendationSkillMatch      RecommendationType = "skill_match"
	RecommendationExperienceMatch RecommendationType = "experience_match"
	RecommendationLocationMatch   RecommendationType = "location_match"
	RecommendationMixed           RecommendationType = "mixed"
)

// RecommendationEntry is one ranked recommendation. Exactly one of Job or
// Candidate is set depending on direction. Entries are ephemeral: computed per
// invocation and cached as a serialized list, never persisted.
type RecommendationEntry struct {
	Job       *JobPosting        `json:"job,omitempty"`
	Candidate *Candidate         `json:"candidate,omitempty"`
	Score     float64            `json:"score"`
	Sources   []ScoreSource      `json:"sources"`
	Reasons   []string           `json:"reasons"`
	Type      RecommendationType `json:"recommendation_type"`
}
