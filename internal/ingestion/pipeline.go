package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/askly/internal/crawling"
	"github.com/jonathan/askly/internal/db"
	"github.com/jonathan/askly/internal/fetch"
	"github.com/jonathan/askly/internal/types"
)

// DefaultConcurrency bounds how many resources are ingested in parallel per
// request.
const DefaultConcurrency = 4

// Per-resource failure messages surfaced in ingestion results.
var (
	ErrResourceNotFound = errors.New("Resource not found")
	ErrWrongJob         = errors.New("Resource does not belong to this job")
)

// AlreadyAddedNote marks a resource that was ingested by an earlier request.
// The result still counts as successful.
const AlreadyAddedNote = "Already in knowledge base"

// Store is the persistence surface the pipeline needs. *db.DB satisfies it.
type Store interface {
	GetCrawlResult(ctx context.Context, resultID uuid.UUID) (*db.CrawlResult, error)
	MarkResultAdded(ctx context.Context, resultID, entryID uuid.UUID) error
	AddKBEntry(ctx context.Context, namespace uuid.UUID, key, text string, metadata map[string]string, contentHash string) (uuid.UUID, bool, error)
	StoreBlob(ctx context.Context, key string, data []byte, mimeType string) (uuid.UUID, error)
	DeleteBlob(ctx context.Context, blobID uuid.UUID) error
}

// TextExtractor turns binary content into searchable text.
type TextExtractor interface {
	ExtractTextContent(ctx context.Context, data []byte, mimeType string) (string, error)
}

// ResourceResult reports the outcome of ingesting a single resource.
type ResourceResult struct {
	ResultID uuid.UUID  `json:"result_id"`
	Success  bool       `json:"success"`
	EntryID  *uuid.UUID `json:"entry_id,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Outcome aggregates the per-resource results of one ingestion request.
// Results preserve the order of the requested IDs.
type Outcome struct {
	Results    []ResourceResult `json:"results"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
}

// Pipeline ingests crawl results into the knowledge base.
type Pipeline struct {
	store       Store
	extractor   TextExtractor
	concurrency int
	useBrowser  bool
}

// NewPipeline wires a Pipeline to its store and text extractor.
func NewPipeline(store Store, extractor TextExtractor) *Pipeline {
	return &Pipeline{
		store:       store,
		extractor:   extractor,
		concurrency: DefaultConcurrency,
	}
}

// WithBrowserFallback enables headless browser re-rendering for pages whose
// plain HTTP fetch yields almost no text.
func (p *Pipeline) WithBrowserFallback(enabled bool) *Pipeline {
	p.useBrowser = enabled
	return p
}

// Ingest processes the requested crawl results concurrently, bounded by the
// pipeline's concurrency limit. Each resource succeeds or fails on its own;
// a failure never aborts the batch. Results come back in request order.
func (p *Pipeline) Ingest(ctx context.Context, orgID, jobID uuid.UUID, resultIDs []uuid.UUID) *Outcome {
	results := make([]ResourceResult, len(resultIDs))

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for i, resultID := range resultIDs {
		g.Go(func() error {
			results[i] = p.ingestOne(ctx, orgID, jobID, resultID)
			return nil
		})
	}
	_ = g.Wait()

	outcome := &Outcome{Results: results}
	for _, r := range results {
		if r.Success {
			outcome.Successful++
		} else {
			outcome.Failed++
		}
	}
	return outcome
}

// ingestOne runs the full ingestion path for a single resource.
func (p *Pipeline) ingestOne(ctx context.Context, orgID, jobID, resultID uuid.UUID) ResourceResult {
	res := ResourceResult{ResultID: resultID}

	record, err := p.store.GetCrawlResult(ctx, resultID)
	if err != nil {
		res.Error = fmt.Sprintf("failed to load resource: %v", err)
		return res
	}
	if record == nil {
		res.Error = ErrResourceNotFound.Error()
		return res
	}
	if record.JobID != jobID {
		res.Error = ErrWrongJob.Error()
		return res
	}
	if record.AddedToKB {
		// Idempotent: re-ingesting an ingested resource is a no-op success.
		res.Success = true
		res.EntryID = record.KBEntryID
		res.Error = AlreadyAddedNote
		return res
	}

	var entryID uuid.UUID
	switch record.Type {
	case types.ResourceText:
		entryID, err = p.ingestPage(ctx, orgID, record)
	case types.ResourceImage, types.ResourcePDF:
		entryID, err = p.ingestBinary(ctx, orgID, record)
	default:
		err = fmt.Errorf("unknown resource type %q", record.Type)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := p.store.MarkResultAdded(ctx, resultID, entryID); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.EntryID = &entryID
	return res
}

// ingestPage re-fetches a page, extracts its text, and stores it as a
// plain-text knowledge base entry.
func (p *Pipeline) ingestPage(ctx context.Context, orgID uuid.UUID, record *db.CrawlResult) (uuid.UUID, error) {
	title, text, err := PageText(ctx, record.URL, p.useBrowser)
	if err != nil {
		return uuid.Nil, err
	}

	document := PageDocument(title, CleanText(text))
	metadata := map[string]string{
		"source_url": record.SourceURL,
		"type":       string(record.Type),
		"title":      title,
		"mime_type":  "text/plain",
	}

	entryID, _, err := p.store.AddKBEntry(ctx, orgID, record.URL, document, metadata, crawling.HashBytes([]byte(document)))
	if err != nil {
		return uuid.Nil, err
	}
	return entryID, nil
}

// ingestBinary downloads a PDF or image, stores the raw bytes, and extracts
// searchable text from them. The stored blob is removed again when the entry
// turns out to be a duplicate or when extraction fails.
func (p *Pipeline) ingestBinary(ctx context.Context, orgID uuid.UUID, record *db.CrawlResult) (uuid.UUID, error) {
	result, err := fetch.URL(ctx, record.URL, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to download resource: %w", err)
	}

	mimeType := GuessMimeType(record.URL, result.ContentType)
	key := crawling.FilenameFromURL(record.URL)

	blobID, err := p.store.StoreBlob(ctx, key, result.Body, mimeType)
	if err != nil {
		return uuid.Nil, err
	}

	text, err := p.extractor.ExtractTextContent(ctx, result.Body, mimeType)
	if err != nil {
		_ = p.store.DeleteBlob(ctx, blobID)
		return uuid.Nil, err
	}

	metadata := map[string]string{
		"source_url": record.SourceURL,
		"type":       string(record.Type),
		"title":      record.Title,
		"mime_type":  mimeType,
	}

	entryID, created, err := p.store.AddKBEntry(ctx, orgID, key, CleanText(text), metadata, crawling.HashBytes(result.Body))
	if err != nil {
		_ = p.store.DeleteBlob(ctx, blobID)
		return uuid.Nil, err
	}
	if !created {
		// Same bytes were ingested before; keep the original blob only.
		_ = p.store.DeleteBlob(ctx, blobID)
	}
	return entryID, nil
}
