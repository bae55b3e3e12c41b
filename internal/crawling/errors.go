// Package crawling implements the bounded breadth-first website crawler and
// the crawl job lifecycle.
package crawling

import (
	"errors"
	"fmt"
)

// ErrInvalidURL is returned for malformed or non-http(s) seed URLs.
var ErrInvalidURL = errors.New("invalid URL")

// ErrRobotsDisallowed is returned when the origin's robots.txt denies the
// seed URL for our crawler user agent.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// CrawlError represents a general crawling failure
type CrawlError struct {
	Message string
	Cause   error
}

func (e *CrawlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crawl error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("crawl error: %s", e.Message)
}

func (e *CrawlError) Unwrap() error {
	return e.Cause
}

// LinkExtractionError represents a failure in extracting links from HTML
type LinkExtractionError struct {
	Message string
	Cause   error
}

func (e *LinkExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("link extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("link extraction error: %s", e.Message)
}

func (e *LinkExtractionError) Unwrap() error {
	return e.Cause
}
