// Package server provides the HTTP REST API for the recommendation and
// search engines.
package server

import (
	"fmt"
	"net/http"
)

// ErrAccessDenied indicates the caller's role does not permit the operation
type ErrAccessDenied struct{}

func (e *ErrAccessDenied) Error() string {
	return "access denied"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrAccessDenied:
		return http.StatusForbidden
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
