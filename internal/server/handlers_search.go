// Package server provides the HTTP REST API for the recommendation and
// search engines.
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/talent-match/internal/search"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/types"
)

// searchParams holds the pagination parameters shared by the search
// endpoints.
type searchParams struct {
	Limit  int `validate:"gte=1,lte=100"`
	Offset int `validate:"gte=0"`
}

// handleSearchJobs runs the public job search. An authenticated candidate
// gets a personalization block on each result.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r, s)
	if err != nil {
		s.errorJSON(w, err)
		return
	}

	filter, err := parseJobFilter(r)
	if err != nil {
		s.errorJSON(w, err)
		return
	}

	query := search.JobQuery{
		Query:  r.URL.Query().Get("q"),
		Filter: filter,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if userID, err := middleware.GetUserID(r); err == nil {
		query.CandidateID = &userID
	}

	page := s.searcher.SearchJobs(r.Context(), query)
	s.writePage(w, page)
}

// handleSearchCandidates runs the recruiter-only candidate search. The role
// guard lives in the ranker; a denied page maps to 403 here.
func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	recruiterID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	params, err := parseSearchParams(r, s)
	if err != nil {
		s.errorJSON(w, err)
		return
	}

	query := search.CandidateQuery{
		Query:       r.URL.Query().Get("q"),
		Filter:      parseCandidateFilter(r),
		RecruiterID: recruiterID,
		Limit:       params.Limit,
		Offset:      params.Offset,
	}

	page := s.searcher.SearchCandidates(r.Context(), query)
	s.writePage(w, page)
}

func (s *Server) writePage(w http.ResponseWriter, page *search.Page) {
	if page.Denied {
		s.errorJSON(w, &ErrAccessDenied{})
		return
	}
	if page.Results == nil {
		page.Results = []types.SearchResult{}
	}
	s.jsonResponse(w, http.StatusOK, page)
}

func parseSearchParams(r *http.Request, s *Server) (searchParams, error) {
	params := searchParams{Limit: search.DefaultLimit}
	q := r.URL.Query()
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return params, &ErrValidation{Field: "limit", Message: "must be an integer"}
		}
		params.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return params, &ErrValidation{Field: "offset", Message: "must be an integer"}
		}
		params.Offset = offset
	}
	if err := s.validator.Struct(params); err != nil {
		return params, validationError(err)
	}
	return params, nil
}

func parseJobFilter(r *http.Request) (types.JobFilter, error) {
	q := r.URL.Query()
	filter := types.JobFilter{
		Location: q.Get("location"),
		JobType:  q.Get("job_type"),
		Company:  q.Get("company"),
		Skills:   splitSkills(q.Get("skills")),
	}

	if levelStr := q.Get("experience_level"); levelStr != "" {
		level, err := types.ParseExperienceLevel(levelStr)
		if err != nil {
			return filter, &ErrValidation{Field: "experience_level", Message: err.Error()}
		}
		filter.Experience = level
	}
	if minStr := q.Get("salary_min"); minStr != "" {
		min, err := strconv.Atoi(minStr)
		if err != nil {
			return filter, &ErrValidation{Field: "salary_min", Message: "must be an integer"}
		}
		filter.SalaryMin = &min
	}
	if maxStr := q.Get("salary_max"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil {
			return filter, &ErrValidation{Field: "salary_max", Message: "must be an integer"}
		}
		filter.SalaryMax = &max
	}
	if ageStr := q.Get("max_age_days"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil || age < 1 {
			return filter, &ErrValidation{Field: "max_age_days", Message: "must be a positive integer"}
		}
		filter.MaxAgeDays = age
	}
	if q.Get("remote") == "true" {
		filter.RemoteOnly = true
	}
	return filter, nil
}

func parseCandidateFilter(r *http.Request) types.CandidateFilter {
	q := r.URL.Query()
	filter := types.CandidateFilter{
		Location: q.Get("location"),
		Skills:   splitSkills(q.Get("skills")),
	}
	if level, err := types.ParseExperienceLevel(q.Get("experience_level")); err == nil {
		filter.Experience = level
	}
	return filter
}

// splitSkills parses a comma-separated skills parameter.
func splitSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}
