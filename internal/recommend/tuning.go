package recommend

// Tuning collects every ranking constant in one place. The defaults encode the
// production ranking behavior exactly; change them only deliberately, ranking
// output shifts with every knob.
type Tuning struct {
	// Content-based job scoring weights. They sum to 1.
	ContentSkillWeight      float64
	ContentExperienceWeight float64
	ContentLocationWeight   float64
	ContentSalaryWeight     float64
	ContentFreshnessWeight  float64

	// ContentMinScore drops content-based matches at or below this score.
	ContentMinScore float64

	// SalaryAboveRangeScore is the partial salary-fit credit when the
	// candidate's expectation clears the minimum but exceeds the maximum.
	SalaryAboveRangeScore float64

	// FreshnessHorizonDays is where the linear freshness decay reaches zero.
	FreshnessHorizonDays float64

	// Blended candidate similarity.
	SimilaritySkillWeight float64
	SimilarityTraitWeight float64
	SimilarityMinScore    float64
	SimilarCandidateLimit int

	// Interaction weights for the collaborative aggregate.
	AppliedInteractionWeight float64
	ViewedInteractionWeight  float64

	// TrendingWindowDays bounds the popularity recommender to recent postings.
	TrendingWindowDays int

	// Job-side fusion weights. Sources that did not return a job contribute
	// zero for their term; the sum is deliberately not renormalized, so
	// single-source jobs are structurally capped below multi-source ones.
	FusionContentWeight       float64
	FusionCollaborativeWeight float64
	FusionPopularityWeight    float64

	// Candidate-side feeder scoring.
	SkillMatchMinScore       float64
	ExperienceExactScore     float64
	ExperienceAdjacentScore  float64
	ExperienceTwoApartScore  float64
	ExperienceDistantScore   float64
	RemoteAvailabilityScore  float64
	LocationMatchScore       float64
	FusionSkillWeight        float64
	FusionExperienceWeight   float64
	FusionLocationWeight     float64

	// Pool limits bound how many rows the feeders scan per invocation.
	JobPoolLimit       int
	CandidatePoolLimit int

	// MaxReasons caps the reasons carried on a merged entry.
	MaxReasons int
}

// DefaultTuning returns the production ranking constants.
func DefaultTuning() Tuning {
	return Tuning{
		ContentSkillWeight:      0.40,
		ContentExperienceWeight: 0.20,
		ContentLocationWeight:   0.15,
		ContentSalaryWeight:     0.15,
		ContentFreshnessWeight:  0.10,
		ContentMinScore:         0.3,
		SalaryAboveRangeScore:   0.67,
		FreshnessHorizonDays:    30,

		SimilaritySkillWeight: 0.7,
		SimilarityTraitWeight: 0.3,
		SimilarityMinScore:    0.1,
		SimilarCandidateLimit: 10,

		AppliedInteractionWeight: 0.7,
		ViewedInteractionWeight:  0.3,

		TrendingWindowDays: 7,

		FusionContentWeight:       0.5,
		FusionCollaborativeWeight: 0.3,
		FusionPopularityWeight:    0.2,

		SkillMatchMinScore:      0.2,
		ExperienceExactScore:    0.9,
		ExperienceAdjacentScore: 0.6,
		ExperienceTwoApartScore: 0.3,
		ExperienceDistantScore:  0.1,
		RemoteAvailabilityScore: 0.8,
		LocationMatchScore:      0.6,
		FusionSkillWeight:       0.5,
		FusionExperienceWeight:  0.3,
		FusionLocationWeight:    0.2,

		JobPoolLimit:       200,
		CandidatePoolLimit: 200,

		MaxReasons: 2,
	}
}
