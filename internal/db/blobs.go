package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Blob Storage Methods
// -----------------------------------------------------------------------------

// StoreBlob persists raw binary content and returns its ID.
func (db *DB) StoreBlob(ctx context.Context, key string, data []byte, mimeType string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO blobs (key, mime_type, size, data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		key, mimeType, int64(len(data)), data,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to store blob: %w", err)
	}
	return id, nil
}

// DeleteBlob removes a stored blob. Deleting a blob that no longer exists is
// not an error.
func (db *DB) DeleteBlob(ctx context.Context, blobID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM blobs WHERE id = $1`, blobID)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
