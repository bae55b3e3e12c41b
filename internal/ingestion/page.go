// Package ingestion converts crawl results into knowledge base entries:
// pages are re-fetched and re-extracted, binary resources are stored and
// transcribed to searchable text.
package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/askly/internal/crawling"
	"github.com/jonathan/askly/internal/fetch"
)

// PageText re-fetches a page at ingestion time and extracts its title and
// visible text. Extraction strips noscript subtrees in addition to the usual
// noise so fallback markup never leaks into stored text. When useBrowser is
// set, pages that come back nearly empty over plain HTTP are retried with a
// headless browser to cover client-rendered sites.
func PageText(ctx context.Context, urlStr string, useBrowser bool) (title, text string, err error) {
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch page: %w", err)
	}

	html := result.HTML()
	text, err = fetch.ExtractMainText(html, "noscript")
	if err != nil {
		return "", "", fmt.Errorf("failed to extract page text: %w", err)
	}

	if useBrowser && fetch.ShouldUseBrowser(text) {
		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, false)
		if browserErr != nil {
			// Fall through with the HTTP content
			log.Printf("[ingest] browser rendering failed for %s: %v", urlStr, browserErr)
		} else {
			if rendered, extractErr := fetch.ExtractMainText(browserHTML, "noscript"); extractErr == nil {
				html = browserHTML
				text = rendered
			}
		}
	}

	return fetch.Title(html, crawling.DefaultPageTitle), text, nil
}

// PageDocument renders a page as a markdown-ish document: a heading with the
// page title followed by the extracted text.
func PageDocument(title, text string) string {
	return "# " + title + "\n\n" + text
}
