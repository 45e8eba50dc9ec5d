// Package server provides the HTTP REST API for the recommendation and
// search engines.
package server

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/talent-match/internal/recommend"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/types"
)

// recommendParams holds the query parameters shared by the recommendation
// endpoints.
type recommendParams struct {
	Limit int `validate:"gte=1,lte=100"`
}

// recommendationResponse is the JSON body returned by both recommendation
// endpoints.
type recommendationResponse struct {
	Recommendations []types.RecommendationEntry `json:"recommendations"`
	Count           int                         `json:"count"`
}

// handleRecommendJobs returns ranked job recommendations for the
// authenticated candidate.
func (s *Server) handleRecommendJobs(w http.ResponseWriter, r *http.Request) {
	candidateID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	params, err := parseRecommendParams(r, s.validator)
	if err != nil {
		s.errorJSON(w, err)
		return
	}

	result := s.recommender.RecommendJobs(r.Context(), candidateID, params.Limit)
	s.writeRecommendations(w, result)
}

// handleRecommendCandidates returns ranked candidate recommendations for a
// job posting. Recruiter-facing: the route requires authentication and the
// caller must hold the recruiter role.
func (s *Server) handleRecommendCandidates(w http.ResponseWriter, r *http.Request) {
	role, err := middleware.GetRole(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if role != types.RoleRecruiter {
		s.errorResponse(w, HTTPStatus(&ErrAccessDenied{}), "recruiter role required")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorJSON(w, &ErrValidation{Field: "id", Message: "must be a valid job id"})
		return
	}

	params, err := parseRecommendParams(r, s.validator)
	if err != nil {
		s.errorJSON(w, err)
		return
	}

	result := s.recommender.RecommendCandidates(r.Context(), jobID, params.Limit)
	s.writeRecommendations(w, result)
}

func (s *Server) writeRecommendations(w http.ResponseWriter, result *recommend.Result) {
	if result.Denied {
		s.errorJSON(w, &ErrAccessDenied{})
		return
	}

	entries := result.Entries
	if entries == nil {
		entries = []types.RecommendationEntry{}
	}
	s.jsonResponse(w, http.StatusOK, recommendationResponse{
		Recommendations: entries,
		Count:           len(entries),
	})
}

func parseRecommendParams(r *http.Request, validate *validator.Validate) (recommendParams, error) {
	params := recommendParams{Limit: recommend.DefaultLimit}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return params, &ErrValidation{Field: "limit", Message: "must be an integer"}
		}
		params.Limit = limit
	}
	if err := validate.Struct(params); err != nil {
		return params, validationError(err)
	}
	return params, nil
}

// validationError converts the first validator failure into a typed error.
func validationError(err error) *ErrValidation {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
