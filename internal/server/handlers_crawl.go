package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/askly/internal/crawling"
	"github.com/jonathan/askly/internal/db"
	"github.com/jonathan/askly/internal/server/middleware"
	"github.com/jonathan/askly/internal/types"
)

// DefaultMaxDepth applies when a crawl request omits max_depth.
const DefaultMaxDepth = 2

// MaxCrawlDepth is the upper bound accepted from clients.
const MaxCrawlDepth = 5

var validate = validator.New()

// StartCrawlRequest is the body of POST /crawl.
type StartCrawlRequest struct {
	URL      string              `json:"url" validate:"required"`
	MaxDepth *int                `json:"max_depth,omitempty" validate:"omitempty,gte=0"`
	Options  *types.CrawlOptions `json:"options,omitempty"`
}

// StartCrawlResponse is returned when a crawl job has been accepted.
type StartCrawlResponse struct {
	JobID  uuid.UUID       `json:"job_id"`
	Status types.JobStatus `json:"status"`
}

// IngestRequest is the body of POST /crawl-jobs/{id}/ingest.
type IngestRequest struct {
	ResultIDs []uuid.UUID `json:"result_ids" validate:"required,min=1,max=100"`
}

// handleStartCrawl validates the seed URL and robots compliance, creates a
// job, and kicks off the background traversal. Responds 202 with the job ID.
func (s *Server) handleStartCrawl(w http.ResponseWriter, r *http.Request) {
	orgID, err := middleware.GetOrgID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StartCrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	maxDepth := DefaultMaxDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}
	if maxDepth > MaxCrawlDepth {
		maxDepth = MaxCrawlDepth
	}

	// Text extraction is on unless the caller says otherwise.
	opts := types.CrawlOptions{IncludeText: true}
	if req.Options != nil {
		opts = *req.Options
	}

	jobID, err := s.runner.StartCrawl(r.Context(), orgID, crawling.CrawlRequest{
		URL:      req.URL,
		MaxDepth: maxDepth,
		Options:  opts,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusAccepted, StartCrawlResponse{
		JobID:  jobID,
		Status: types.StatusPending,
	})
}

// handleGetCrawlJob returns a crawl job's lifecycle state and counters.
func (s *Server) handleGetCrawlJob(w http.ResponseWriter, r *http.Request) {
	orgID, err := middleware.GetOrgID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	job, ok := s.loadJob(w, r, orgID)
	if !ok {
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleListCrawlResults returns a job's discovered resources in discovery
// order, optionally filtered by ?type=text|image|pdf.
func (s *Server) handleListCrawlResults(w http.ResponseWriter, r *http.Request) {
	orgID, err := middleware.GetOrgID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	job, ok := s.loadJob(w, r, orgID)
	if !ok {
		return
	}

	var typeFilter *types.ResourceType
	if raw := r.URL.Query().Get("type"); raw != "" {
		rt := types.ResourceType(raw)
		if !rt.Valid() {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid resource type: %s", raw))
			return
		}
		typeFilter = &rt
	}

	results, err := s.db.ListCrawlResults(r.Context(), job.ID, typeFilter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list crawl results")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":  job.ID,
		"results": results,
		"count":   len(results),
	})
}

// handleIngest pushes selected crawl results into the knowledge base and
// reports per-resource outcomes.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	orgID, err := middleware.GetOrgID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	job, ok := s.loadJob(w, r, orgID)
	if !ok {
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	outcome := s.pipeline.Ingest(r.Context(), orgID, job.ID, req.ResultIDs)
	s.jsonResponse(w, http.StatusOK, outcome)
}

// loadJob parses the {id} path segment and loads the job scoped to the
// caller's org, writing the error response itself on failure.
func (s *Server) loadJob(w http.ResponseWriter, r *http.Request, orgID uuid.UUID) (*db.CrawlJob, bool) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return nil, false
	}

	job, err := s.db.GetCrawlJob(r.Context(), orgID, jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load crawl job")
		return nil, false
	}
	if job == nil {
		notFound := &ErrJobNotFound{JobID: jobID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, false
	}
	return job, true
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
