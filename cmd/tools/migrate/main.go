// Command migrate creates the database schema for crawl jobs, crawl results,
// knowledge base entries, and blob storage.
//
// Usage:
//
//	go run cmd/tools/migrate/main.go
//
// Requires DATABASE_URL environment variable to be set. Statements are
// idempotent; running the tool against an existing schema is safe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

	`CREATE TABLE IF NOT EXISTS crawl_jobs (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		org_id          UUID NOT NULL,
		url             TEXT NOT NULL,
		max_depth       INT NOT NULL DEFAULT 2,
		options         JSONB,
		status          TEXT NOT NULL DEFAULT 'pending',
		pages_visited   INT NOT NULL DEFAULT 0,
		resources_found INT NOT NULL DEFAULT 0,
		error_message   TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at    TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_crawl_jobs_org ON crawl_jobs (org_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS crawl_results (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		job_id       UUID NOT NULL REFERENCES crawl_jobs (id) ON DELETE CASCADE,
		position     INT NOT NULL,
		url          TEXT NOT NULL,
		type         TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT,
		size         BIGINT,
		content_hash TEXT NOT NULL,
		source_url   TEXT NOT NULL,
		selected     BOOLEAN NOT NULL DEFAULT TRUE,
		added_to_kb  BOOLEAN NOT NULL DEFAULT FALSE,
		kb_entry_id  UUID,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_crawl_results_job ON crawl_results (job_id, position)`,

	`CREATE TABLE IF NOT EXISTS kb_entries (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		namespace    UUID NOT NULL,
		key          TEXT NOT NULL,
		text         TEXT NOT NULL,
		metadata     JSONB,
		content_hash TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (namespace, content_hash)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kb_entries_namespace ON kb_entries (namespace, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS blobs (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		key        TEXT NOT NULL,
		mime_type  TEXT NOT NULL,
		size       BIGINT NOT NULL,
		data       BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("=== Schema Migration ===")
	for i, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Statement %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Applied %d statements\n", len(statements))
}
