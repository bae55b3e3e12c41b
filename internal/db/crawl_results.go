package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/askly/internal/types"
)

// -----------------------------------------------------------------------------
// Crawl Result Methods
// -----------------------------------------------------------------------------

// SaveCrawlResults persists a job's discovered resources as one atomic batch.
// Position records discovery order so listings replay the traversal. Every
// resource starts out selected for review.
func (db *DB) SaveCrawlResults(ctx context.Context, jobID uuid.UUID, resources []types.CrawledResource) error {
	if len(resources) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, r := range resources {
		var description *string
		if r.Description != "" {
			description = &r.Description
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO crawl_results (job_id, position, url, type, title, description,
			                            size, content_hash, source_url, selected)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)`,
			jobID, i, r.URL, string(r.Type), r.Title, description, r.Size,
			r.ContentHash, r.SourceURL,
		)
		if err != nil {
			return fmt.Errorf("failed to save crawl result %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit crawl results: %w", err)
	}
	return nil
}

// ListCrawlResults retrieves a job's results in discovery order, optionally
// filtered by resource type.
func (db *DB) ListCrawlResults(ctx context.Context, jobID uuid.UUID, typeFilter *types.ResourceType) ([]CrawlResult, error) {
	query := `SELECT id, job_id, position, url, type, title, description, size,
	                 content_hash, source_url, selected, added_to_kb, kb_entry_id, created_at
	          FROM crawl_results WHERE job_id = $1`
	args := []any{jobID}
	if typeFilter != nil {
		query += ` AND type = $2`
		args = append(args, string(*typeFilter))
	}
	query += ` ORDER BY position`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawl results: %w", err)
	}
	defer rows.Close()

	results := make([]CrawlResult, 0)
	for rows.Next() {
		var r CrawlResult
		err := rows.Scan(&r.ID, &r.JobID, &r.Position, &r.URL, &r.Type, &r.Title,
			&r.Description, &r.Size, &r.ContentHash, &r.SourceURL,
			&r.Selected, &r.AddedToKB, &r.KBEntryID, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate crawl results: %w", err)
	}

	return results, nil
}

// GetCrawlResult retrieves a single crawl result by ID. Returns (nil, nil)
// when no such result exists.
func (db *DB) GetCrawlResult(ctx context.Context, resultID uuid.UUID) (*CrawlResult, error) {
	var r CrawlResult
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_id, position, url, type, title, description, size,
		        content_hash, source_url, selected, added_to_kb, kb_entry_id, created_at
		 FROM crawl_results WHERE id = $1`,
		resultID,
	).Scan(&r.ID, &r.JobID, &r.Position, &r.URL, &r.Type, &r.Title,
		&r.Description, &r.Size, &r.ContentHash, &r.SourceURL,
		&r.Selected, &r.AddedToKB, &r.KBEntryID, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crawl result: %w", err)
	}
	return &r, nil
}

// MarkResultAdded flags a result as ingested and links its knowledge base
// entry.
func (db *DB) MarkResultAdded(ctx context.Context, resultID, entryID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE crawl_results SET added_to_kb = TRUE, kb_entry_id = $2 WHERE id = $1`,
		resultID, entryID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark crawl result added: %w", err)
	}
	return nil
}
