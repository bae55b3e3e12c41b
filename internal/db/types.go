package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/askly/internal/types"
)

// CrawlJob is a persisted crawl job row.
type CrawlJob struct {
	ID             uuid.UUID          `json:"id"`
	OrgID          uuid.UUID          `json:"org_id"`
	URL            string             `json:"url"`
	MaxDepth       int                `json:"max_depth"`
	Options        types.CrawlOptions `json:"options"`
	Status         types.JobStatus    `json:"status"`
	PagesVisited   int                `json:"pages_visited"`
	ResourcesFound int                `json:"resources_found"`
	ErrorMessage   *string            `json:"error_message,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

// CrawlResult is a persisted crawl result row. Position preserves the
// traversal discovery order within a job.
type CrawlResult struct {
	ID          uuid.UUID          `json:"id"`
	JobID       uuid.UUID          `json:"job_id"`
	Position    int                `json:"-"`
	URL         string             `json:"url"`
	Type        types.ResourceType `json:"type"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Size        *int64             `json:"size,omitempty"`
	ContentHash string             `json:"content_hash"`
	SourceURL   string             `json:"source_url"`
	Selected    bool               `json:"selected"`
	AddedToKB   bool               `json:"added_to_knowledge_base"`
	KBEntryID   *uuid.UUID         `json:"kb_entry_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// KBEntry is a persisted knowledge base entry row. Namespace is the owning
// organization's ID.
type KBEntry struct {
	ID          uuid.UUID         `json:"id"`
	Namespace   uuid.UUID         `json:"namespace"`
	Key         string            `json:"key"`
	Text        string            `json:"text"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ContentHash string            `json:"content_hash"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Blob is a stored binary object (PDF or image bytes) backing a knowledge
// base entry.
type Blob struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
