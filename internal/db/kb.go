package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Knowledge Base Methods
// -----------------------------------------------------------------------------

// AddKBEntry inserts a knowledge base entry, deduplicating per namespace on
// content hash. When an entry with the same (namespace, content_hash) already
// exists the existing entry's ID is returned with created=false and nothing
// is written.
func (db *DB) AddKBEntry(ctx context.Context, namespace uuid.UUID, key, text string, metadata map[string]string, contentHash string) (uuid.UUID, bool, error) {
	var metadataJSON []byte
	var err error
	if len(metadata) > 0 {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("failed to marshal entry metadata: %w", err)
		}
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO kb_entries (namespace, key, text, metadata, content_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (namespace, content_hash) DO NOTHING
		 RETURNING id`,
		namespace, key, text, metadataJSON, contentHash,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, false, fmt.Errorf("failed to add knowledge base entry: %w", err)
	}

	// Conflict path: the entry already exists, look it up.
	err = db.pool.QueryRow(ctx,
		`SELECT id FROM kb_entries WHERE namespace = $1 AND content_hash = $2`,
		namespace, contentHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to look up existing knowledge base entry: %w", err)
	}
	return id, false, nil
}

// GetKBEntry retrieves a knowledge base entry scoped to a namespace. Returns
// (nil, nil) when no such entry exists.
func (db *DB) GetKBEntry(ctx context.Context, namespace, entryID uuid.UUID) (*KBEntry, error) {
	var e KBEntry
	var metadataJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, namespace, key, text, metadata, content_hash, created_at
		 FROM kb_entries WHERE id = $1 AND namespace = $2`,
		entryID, namespace,
	).Scan(&e.ID, &e.Namespace, &e.Key, &e.Text, &metadataJSON, &e.ContentHash, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get knowledge base entry: %w", err)
	}
	if metadataJSON != nil {
		_ = json.Unmarshal(metadataJSON, &e.Metadata)
	}
	return &e, nil
}

// ListKBEntries retrieves a namespace's entries, newest first.
func (db *DB) ListKBEntries(ctx context.Context, namespace uuid.UUID, limit int) ([]KBEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, namespace, key, content_hash, created_at
		 FROM kb_entries WHERE namespace = $1
		 ORDER BY created_at DESC LIMIT $2`,
		namespace, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge base entries: %w", err)
	}
	defer rows.Close()

	entries := make([]KBEntry, 0)
	for rows.Next() {
		var e KBEntry
		if err := rows.Scan(&e.ID, &e.Namespace, &e.Key, &e.ContentHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge base entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate knowledge base entries: %w", err)
	}
	return entries, nil
}
