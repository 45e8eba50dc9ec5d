package types

import "fmt"

// ExperienceLevel is the ordered seniority tier attached to candidates and postings.
type ExperienceLevel string

// Experience tiers, ordered from most junior to most senior.
const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceJunior    ExperienceLevel = "junior"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

// experienceOrder defines the tier ordering used for distance calculations.
var experienceOrder = []ExperienceLevel{
	ExperienceEntry,
	ExperienceJunior,
	ExperienceMid,
	ExperienceSenior,
	ExperienceLead,
	ExperienceExecutive,
}

// ParseExperienceLevel converts a string into an ExperienceLevel.
// An empty string is valid and means "unspecified".
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	if s == "" {
		return "", nil
	}
	level := ExperienceLevel(s)
	if level.Index() < 0 {
		return "", fmt.Errorf("unknown experience level: %q", s)
	}
	return level, nil
}

// Index returns the position of the level on the ordered tier list,
// or -1 if the level is empty or unknown.
func (l ExperienceLevel) Index() int {
	for i, level := range experienceOrder {
		if level == l {
			return i
		}
	}
	return -1
}

// Distance returns the absolute tier distance between two levels,
// or -1 if either level is unspecified or unknown.
func (l ExperienceLevel) Distance(other ExperienceLevel) int {
	a, b := l.Index(), other.Index()
	if a < 0 || b < 0 {
		return -1
	}
	if a > b {
		return a - b
	}
	return b - a
}
