package crawling

import (
	"net/url"
	"strings"
)

// ValidateSeedURL parses a seed URL and enforces the protocol allow-list.
// Only http and https are crawlable; anything else fails before network I/O.
func ValidateSeedURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &CrawlError{Message: "invalid URL", Cause: ErrInvalidURL}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &CrawlError{Message: "only HTTP and HTTPS allowed", Cause: ErrInvalidURL}
	}
	return u, nil
}

// NormalizeURL canonicalizes a URL for visited-set deduplication: the
// fragment is stripped and a single trailing slash is removed from non-root
// paths. Two URLs differing only by fragment or trailing slash are the same
// page.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", &CrawlError{Message: "failed to parse URL", Cause: err}
	}
	u.Fragment = ""
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String(), nil
}
