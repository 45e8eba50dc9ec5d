package types

import (
	"time"

	"github.com/google/uuid"
)

// JobPosting is a read-only snapshot of a job listing.
type JobPosting struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Company          string          `json:"company"`
	Description      string          `json:"description,omitempty"`
	Requirements     string          `json:"requirements,omitempty"`
	Skills           []string        `json:"skills"`
	Location         string          `json:"location"`
	RemoteAllowed    bool            `json:"remote_allowed"`
	JobType          string          `json:"job_type,omitempty"`
	Experience       ExperienceLevel `json:"experience_level,omitempty"` // empty = any
	SalaryMin        *int            `json:"salary_min,omitempty"`
	SalaryMax        *int            `json:"salary_max,omitempty"`
	Active           bool            `json:"active"`
	ViewCount        int             `json:"view_count"`
	ApplicationCount int             `json:"application_count"`
	CreatedAt        time.Time       `json:"created_at"`
}

// SkillSet returns the posting's required skills as a normalized set.
func (p *JobPosting) SkillSet() map[string]bool {
	return NewSkillSet(p.Skills)
}

// AgeDays returns the posting age in fractional days relative to now.
func (p *JobPosting) AgeDays(now time.Time) float64 {
	return now.Sub(p.CreatedAt).Hours() / 24
}

// InteractionCount is the popularity signal: views plus double-weighted
// applications.
func (p *JobPosting) InteractionCount() int {
	return p.ViewCount + 2*p.ApplicationCount
}

// JobFilter holds the explicit filters the repository can push into its query.
// Free-text matching stays in the search ranker; the repository only narrows
// the row set.
type JobFilter struct {
	Location   string
	JobType    string
	Experience ExperienceLevel
	SalaryMin  *int
	SalaryMax  *int
	Skills     []string
	Company    string
	MaxAgeDays int  // 0 = no age bound
	RemoteOnly bool // restrict to remote-allowed postings
	ActiveOnly bool
	Limit      int
}

// CandidateFilter narrows the candidate row set for search and the
// recruiter-facing recommenders.
type CandidateFilter struct {
	Location   string
	Experience ExperienceLevel
	Skills     []string
	Limit      int
}
