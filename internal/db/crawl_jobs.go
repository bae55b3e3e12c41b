package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/askly/internal/crawling"
	"github.com/jonathan/askly/internal/types"
)

// -----------------------------------------------------------------------------
// Crawl Job Methods
// -----------------------------------------------------------------------------

// CreateCrawlJob inserts a new crawl job in pending state and returns its ID
func (db *DB) CreateCrawlJob(ctx context.Context, orgID uuid.UUID, seedURL string, maxDepth int, opts types.CrawlOptions) (uuid.UUID, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal crawl options: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO crawl_jobs (org_id, url, max_depth, options, status)
		 VALUES ($1, $2, $3, $4, 'pending')
		 RETURNING id`,
		orgID, seedURL, maxDepth, optsJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create crawl job: %w", err)
	}
	return id, nil
}

// UpdateCrawlJobStatus applies a partial status update. Jobs already in a
// terminal state are never modified; the guard lives in the WHERE clause so
// concurrent updaters cannot race past it. Moving into a terminal state
// stamps completed_at.
func (db *DB) UpdateCrawlJobStatus(ctx context.Context, jobID uuid.UUID, patch crawling.StatusPatch) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE crawl_jobs SET
		     status = $2,
		     error_message = COALESCE($3, error_message),
		     pages_visited = COALESCE($4, pages_visited),
		     resources_found = COALESCE($5, resources_found),
		     completed_at = CASE WHEN $2 IN ('completed', 'failed') THEN NOW() ELSE completed_at END
		 WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
		jobID, string(patch.Status), patch.ErrorMessage, patch.PagesVisited, patch.ResourcesFound,
	)
	if err != nil {
		return fmt.Errorf("failed to update crawl job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("crawl job %s not found or already finished", jobID)
	}
	return nil
}

// GetCrawlJob retrieves a crawl job scoped to an organization. Returns
// (nil, nil) when no such job exists for that org.
func (db *DB) GetCrawlJob(ctx context.Context, orgID, jobID uuid.UUID) (*CrawlJob, error) {
	var job CrawlJob
	var optsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, org_id, url, max_depth, options, status, pages_visited,
		        resources_found, error_message, created_at, completed_at
		 FROM crawl_jobs WHERE id = $1 AND org_id = $2`,
		jobID, orgID,
	).Scan(&job.ID, &job.OrgID, &job.URL, &job.MaxDepth, &optsJSON, &job.Status,
		&job.PagesVisited, &job.ResourcesFound, &job.ErrorMessage,
		&job.CreatedAt, &job.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crawl job: %w", err)
	}

	if optsJSON != nil {
		_ = json.Unmarshal(optsJSON, &job.Options)
	}

	return &job, nil
}
