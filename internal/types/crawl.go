// Package types defines the core domain types shared across the crawl and
// ingestion packages.
package types

// ResourceType classifies a resource discovered during a crawl.
type ResourceType string

// Resource type constants for discovered crawl resources
const (
	// ResourceText is a crawled HTML page's visible text content
	ResourceText ResourceType = "text"
	// ResourceImage is an image referenced by a crawled page
	ResourceImage ResourceType = "image"
	// ResourcePDF is a PDF document linked from a crawled page
	ResourcePDF ResourceType = "pdf"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceText, ResourceImage, ResourcePDF:
		return true
	}
	return false
}

// JobStatus represents the lifecycle state of a crawl job.
type JobStatus string

// Crawl job status constants
const (
	// StatusPending means the job has been created but traversal has not started
	StatusPending JobStatus = "pending"
	// StatusCrawling means the background traversal is in progress
	StatusCrawling JobStatus = "crawling"
	// StatusCompleted means traversal finished and results were persisted
	StatusCompleted JobStatus = "completed"
	// StatusFailed means the job hit an unrecoverable error
	StatusFailed JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CrawlOptions holds the inclusion flags for a crawl job.
type CrawlOptions struct {
	IncludeImages bool `json:"include_images"`
	IncludePdfs   bool `json:"include_pdfs"`
	IncludeText   bool `json:"include_text"`
}

// CrawledResource is a resource discovered during traversal, before it is
// persisted as a crawl result row.
type CrawledResource struct {
	URL         string       `json:"url"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Size        *int64       `json:"size,omitempty"`
	ContentHash string       `json:"content_hash"`
	SourceURL   string       `json:"source_url"`
}
