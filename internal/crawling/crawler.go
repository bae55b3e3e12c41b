package crawling

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/askly/internal/fetch"
	"github.com/jonathan/askly/internal/types"
)

// MaxResourcesPerJob is the hard cap on discovered resources per crawl job.
// Large sites are truncated breadth-first, biasing toward broad top-level
// coverage.
const MaxResourcesPerJob = 100

// RequestDelay is the politeness delay between consecutive fetches within a
// job. It applies globally across the traversal, not per origin.
const RequestDelay = 500 * time.Millisecond

// CrawlRequest describes one crawl of a website.
type CrawlRequest struct {
	URL      string
	MaxDepth int
	Options  types.CrawlOptions
}

// CrawlOutcome is the result of a completed traversal.
type CrawlOutcome struct {
	Resources    []types.CrawledResource
	PagesVisited int
}

// Crawler performs bounded breadth-first traversals. The zero value is not
// usable; construct with NewCrawler.
type Crawler struct {
	delay        time.Duration
	maxResources int
	fetchOpts    *fetch.Options
}

// NewCrawler returns a Crawler with production limits.
func NewCrawler() *Crawler {
	return &Crawler{
		delay:        RequestDelay,
		maxResources: MaxResourcesPerJob,
		fetchOpts:    fetch.DefaultOptions(),
	}
}

// WithDelay overrides the politeness delay. Used by tests to keep traversal
// fast against local servers.
func (c *Crawler) WithDelay(d time.Duration) *Crawler {
	c.delay = d
	return c
}

// Crawl validates the seed URL, checks robots compliance, and runs the
// traversal. Request-level failures (invalid URL, robots denial) are
// returned as errors; individual page failures are swallowed and surface
// only as absent resources.
func (c *Crawler) Crawl(ctx context.Context, req CrawlRequest) (*CrawlOutcome, error) {
	seed, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.traverse(ctx, seed, req)
}

// prepare enforces the request-level checks that must pass before any
// traversal state exists.
func (c *Crawler) prepare(ctx context.Context, req CrawlRequest) (*url.URL, error) {
	seed, err := ValidateSeedURL(req.URL)
	if err != nil {
		return nil, err
	}
	if !CanCrawl(ctx, seed) {
		return nil, &CrawlError{Message: "crawling not permitted", Cause: ErrRobotsDisallowed}
	}
	return seed, nil
}

type queueEntry struct {
	url   string
	depth int
}

// traverse runs the breadth-first loop. It maintains a FIFO queue of
// (url, depth) pairs and a visited set keyed by normalized URL; entries
// deeper than the configured max depth are discarded, and the loop stops
// once the resource cap is reached.
func (c *Crawler) traverse(ctx context.Context, seed *url.URL, req CrawlRequest) (*CrawlOutcome, error) {
	origin := Origin(seed)
	visited := make(map[string]bool)
	queue := []queueEntry{{url: seed.String(), depth: 0}}

	var resources []types.CrawledResource

	for len(queue) > 0 && len(resources) < c.maxResources {
		current := queue[0]
		queue = queue[1:]

		if current.depth > req.MaxDepth {
			continue
		}

		normalized, err := NormalizeURL(current.url)
		if err != nil {
			continue
		}
		if visited[normalized] {
			continue
		}
		visited[normalized] = true

		// Politeness delay, skipped for the very first fetch.
		if len(visited) > 1 {
			if err := sleepCtx(ctx, c.delay); err != nil {
				return nil, err
			}
		}

		result, err := fetch.URL(ctx, current.url, c.fetchOpts)
		if err != nil {
			// One bad page must not sink the whole crawl.
			continue
		}

		contentType := result.ContentType
		switch {
		case strings.Contains(contentType, "text/html"):
			pageResources, err := ExtractResources(result.HTML(), current.url, req.Options)
			if err == nil {
				resources = append(resources, pageResources...)
			}

			if current.depth < req.MaxDepth {
				links, err := ExtractLinks(result.HTML(), current.url, origin)
				if err != nil {
					continue
				}
				for _, link := range links {
					n, err := NormalizeURL(link)
					if err != nil || visited[n] {
						continue
					}
					queue = append(queue, queueEntry{url: link, depth: current.depth + 1})
				}
			}

		case strings.Contains(contentType, "application/pdf") && req.Options.IncludePdfs:
			resources = append(resources, DirectResource(current.url, types.ResourcePDF, int64(len(result.Body))))

		case strings.HasPrefix(contentType, "image/") && req.Options.IncludeImages:
			resources = append(resources, DirectResource(current.url, types.ResourceImage, int64(len(result.Body))))
		}
	}

	return &CrawlOutcome{
		Resources:    dedupeByHash(resources),
		PagesVisited: len(visited),
	}, nil
}

// dedupeByHash removes resources sharing a content hash, keeping the first
// occurrence. Breadth-first ordering means shallower discoveries win.
func dedupeByHash(resources []types.CrawledResource) []types.CrawledResource {
	seen := make(map[string]bool, len(resources))
	deduped := make([]types.CrawledResource, 0, len(resources))
	for _, r := range resources {
		if seen[r.ContentHash] {
			continue
		}
		seen[r.ContentHash] = true
		deduped = append(deduped, r)
	}
	return deduped
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
