package similarity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

// Vector is the set representation of a candidate used for similarity:
// their normalized skill set and the trait set of the jobs they applied to.
type Vector struct {
	Candidate *types.Candidate
	Skills    map[string]bool
	JobTraits map[string]bool
}

// Scored pairs a candidate with their blended similarity to the target.
type Scored struct {
	Candidate *types.Candidate
	Score     float64
}

// Options controls the blended similarity computation.
type Options struct {
	SkillWeight float64 // weight of skill-set similarity
	TraitWeight float64 // weight of applied-job-trait similarity
	MinScore    float64 // candidates at or below this are dropped
	Limit       int     // top-N to keep; 0 = all
}

// NewVector builds a similarity vector for a candidate given the postings
// they applied to.
func NewVector(candidate *types.Candidate, appliedJobs []*types.JobPosting) Vector {
	return Vector{
		Candidate: candidate,
		Skills:    candidate.SkillSet(),
		JobTraits: TraitSet(appliedJobs),
	}
}

// TraitSet extracts the attribute set of a list of postings: job type,
// experience tier, location, and remote policy tokens. Two candidates who
// applied to jobs sharing these attributes are considered similar even if the
// job ids differ.
func TraitSet(jobs []*types.JobPosting) map[string]bool {
	traits := make(map[string]bool)
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if job.JobType != "" {
			traits[fmt.Sprintf("type:%s", strings.ToLower(job.JobType))] = true
		}
		if job.Experience != "" {
			traits[fmt.Sprintf("level:%s", job.Experience)] = true
		}
		if job.Location != "" {
			traits[fmt.Sprintf("loc:%s", strings.ToLower(job.Location))] = true
		}
		if job.RemoteAllowed {
			traits["remote"] = true
		}
	}
	return traits
}

// Blended computes the weighted similarity between two candidate vectors.
func Blended(a, b Vector, opts Options) float64 {
	return opts.SkillWeight*Jaccard(a.Skills, b.Skills) +
		opts.TraitWeight*Jaccard(a.JobTraits, b.JobTraits)
}

// TopSimilar ranks the other candidates by blended similarity to the target,
// keeps those scoring strictly above MinScore, and returns the top Limit.
// Ties keep the input order (stable sort).
func TopSimilar(target Vector, others []Vector, opts Options) []Scored {
	scored := make([]Scored, 0, len(others))
	for _, other := range others {
		if other.Candidate.ID == target.Candidate.ID {
			continue
		}
		score := Blended(target, other, opts)
		if score <= opts.MinScore {
			continue
		}
		scored = append(scored, Scored{Candidate: other.Candidate, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if opts.Limit > 0 && len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}
	return scored
}
