// Package types defines the domain model shared by the recommendation and
// search engines: candidates, job postings, and the derived result records.
package types

import (
	"strings"

	"github.com/google/uuid"
)

// Role distinguishes the two sides of the marketplace.
type Role string

// Marketplace roles.
const (
	RoleJobSeeker Role = "job_seeker"
	RoleRecruiter Role = "recruiter"
)

// InteractionKind classifies a candidate/job interaction event.
type InteractionKind string

// Interaction kinds recorded by the tracking subsystem.
const (
	InteractionViewed  InteractionKind = "viewed"
	InteractionApplied InteractionKind = "applied"
)

// Candidate is a read-only snapshot of a job-seeking profile, including the
// applied/viewed job sets the recommenders need. The profile and application
// subsystems own the underlying rows; this engine never mutates them.
type Candidate struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Position       string          `json:"position"`
	Location       string          `json:"location"`
	Experience     ExperienceLevel `json:"experience_level"`
	ExpectedSalary *int            `json:"expected_salary,omitempty"`
	Skills         []string        `json:"skills"`
	AppliedJobIDs  []uuid.UUID     `json:"applied_job_ids,omitempty"`
	ViewedJobIDs   []uuid.UUID     `json:"viewed_job_ids,omitempty"`
}

// HasApplied reports whether the candidate applied to the given job.
func (c *Candidate) HasApplied(jobID uuid.UUID) bool {
	for _, id := range c.AppliedJobIDs {
		if id == jobID {
			return true
		}
	}
	return false
}

// HasViewed reports whether the candidate viewed the given job.
func (c *Candidate) HasViewed(jobID uuid.UUID) bool {
	for _, id := range c.ViewedJobIDs {
		if id == jobID {
			return true
		}
	}
	return false
}

// SkillSet returns the candidate's skills as a normalized set.
func (c *Candidate) SkillSet() map[string]bool {
	return NewSkillSet(c.Skills)
}

// NormalizeSkill normalizes a skill name for matching.
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// NewSkillSet builds a normalized set from a list of skill names,
// dropping empties.
func NewSkillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		if normalized := NormalizeSkill(s); normalized != "" {
			set[normalized] = true
		}
	}
	return set
}

// LocationMatches reports whether a candidate location substring-matches a job
// location, case-insensitively. Empty locations never match.
func LocationMatches(candidateLocation, jobLocation string) bool {
	candidateLocation = strings.ToLower(strings.TrimSpace(candidateLocation))
	jobLocation = strings.ToLower(strings.TrimSpace(jobLocation))
	if candidateLocation == "" || jobLocation == "" {
		return false
	}
	return strings.Contains(jobLocation, candidateLocation)
}
