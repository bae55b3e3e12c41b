// Package server provides the HTTP REST API for crawl jobs and ingestion.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/askly/internal/crawling"
)

// ErrJobNotFound indicates a crawl job was not found for the caller's org
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("crawl job not found: %s", e.JobID)
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
	if errors.Is(err, crawling.ErrInvalidURL) {
		return http.StatusBadRequest
	}
	if errors.Is(err, crawling.ErrRobotsDisallowed) {
		return http.StatusForbidden
	}
	switch err.(type) {
	case *ErrJobNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
