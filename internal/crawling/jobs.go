package crawling

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/askly/internal/types"
)

// JobStore persists crawl job state and results. Implemented by the db
// package; tests substitute in-memory fakes.
type JobStore interface {
	CreateCrawlJob(ctx context.Context, orgID uuid.UUID, seedURL string, maxDepth int, opts types.CrawlOptions) (uuid.UUID, error)
	UpdateCrawlJobStatus(ctx context.Context, jobID uuid.UUID, patch StatusPatch) error
	SaveCrawlResults(ctx context.Context, jobID uuid.UUID, resources []types.CrawledResource) error
}

// StatusPatch is a partial update to a crawl job's lifecycle fields. Nil
// pointers leave the corresponding column untouched.
type StatusPatch struct {
	Status         types.JobStatus
	ErrorMessage   *string
	PagesVisited   *int
	ResourcesFound *int
}

// Runner launches crawl jobs and drives them through their lifecycle.
type Runner struct {
	store   JobStore
	crawler *Crawler
}

// NewRunner wires a Runner to its job store and crawler.
func NewRunner(store JobStore, crawler *Crawler) *Runner {
	return &Runner{store: store, crawler: crawler}
}

// StartCrawl validates the request, creates the job row, and spawns the
// traversal in the background. Invalid seed URLs and robots denials fail
// here, before any job exists; everything after job creation surfaces
// through the job's status instead.
func (r *Runner) StartCrawl(ctx context.Context, orgID uuid.UUID, req CrawlRequest) (uuid.UUID, error) {
	seed, err := r.crawler.prepare(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}

	jobID, err := r.store.CreateCrawlJob(ctx, orgID, req.URL, req.MaxDepth, req.Options)
	if err != nil {
		return uuid.Nil, err
	}

	// Detached from the request context: the HTTP response returns
	// immediately while the traversal continues.
	go r.execute(context.Background(), jobID, seed.String(), req)

	return jobID, nil
}

// execute runs the traversal for an already-created job and records the
// outcome. Any failure marks the job failed with the error message; there
// are no retries.
func (r *Runner) execute(ctx context.Context, jobID uuid.UUID, seedURL string, req CrawlRequest) {
	if err := r.store.UpdateCrawlJobStatus(ctx, jobID, StatusPatch{Status: types.StatusCrawling}); err != nil {
		log.Printf("[crawl] job %s: failed to mark crawling: %v", jobID, err)
		return
	}

	seed, err := ValidateSeedURL(seedURL)
	if err != nil {
		r.fail(ctx, jobID, err)
		return
	}

	outcome, err := r.crawler.traverse(ctx, seed, req)
	if err != nil {
		r.fail(ctx, jobID, err)
		return
	}

	if err := r.store.SaveCrawlResults(ctx, jobID, outcome.Resources); err != nil {
		r.fail(ctx, jobID, err)
		return
	}

	found := len(outcome.Resources)
	patch := StatusPatch{
		Status:         types.StatusCompleted,
		PagesVisited:   &outcome.PagesVisited,
		ResourcesFound: &found,
	}
	if err := r.store.UpdateCrawlJobStatus(ctx, jobID, patch); err != nil {
		log.Printf("[crawl] job %s: failed to mark completed: %v", jobID, err)
		return
	}

	log.Printf("[crawl] job %s: completed, %d pages visited, %d resources", jobID, outcome.PagesVisited, found)
}

func (r *Runner) fail(ctx context.Context, jobID uuid.UUID, cause error) {
	msg := cause.Error()
	log.Printf("[crawl] job %s: failed: %s", jobID, msg)
	if err := r.store.UpdateCrawlJobStatus(ctx, jobID, StatusPatch{Status: types.StatusFailed, ErrorMessage: &msg}); err != nil {
		log.Printf("[crawl] job %s: failed to record failure: %v", jobID, err)
	}
}
