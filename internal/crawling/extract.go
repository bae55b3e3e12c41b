package crawling

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/askly/internal/fetch"
	"github.com/jonathan/askly/internal/types"
)

// MinTextLength is the minimum cleaned-text length for a page to be emitted
// as a text resource. Shorter pages are boilerplate, not knowledge-base
// material.
const MinTextLength = 50

// DefaultPageTitle is used when a page has no <title>.
const DefaultPageTitle = "Untitled Page"

// ExtractResources parses a fetched HTML page into candidate resources
// according to the job's inclusion flags.
//
// Text resources hash their cleaned text; image and pdf resources hash their
// resolved URL string. Byte-level hashes for binary resources are only
// computed later, during ingestion.
func ExtractResources(htmlContent string, pageURL string, opts types.CrawlOptions) ([]types.CrawledResource, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &CrawlError{Message: fmt.Sprintf("invalid page URL: %s", pageURL), Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &CrawlError{Message: "failed to parse HTML", Cause: err}
	}

	var resources []types.CrawledResource

	if opts.IncludeText {
		title := strings.TrimSpace(doc.Find("title").First().Text())
		if title == "" {
			title = DefaultPageTitle
		}

		content, err := fetch.ExtractMainText(htmlContent)
		if err == nil && len(content) > MinTextLength {
			resources = append(resources, types.CrawledResource{
				URL:         pageURL,
				Type:        types.ResourceText,
				Title:       title,
				ContentHash: HashString(content),
				SourceURL:   pageURL,
			})
		}
	}

	if opts.IncludeImages {
		doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
			src, exists := s.Attr("src")
			if !exists || src == "" {
				return
			}
			// Inline and vector assets are not knowledge-base material
			if strings.HasPrefix(src, "data:") || strings.HasSuffix(src, ".svg") {
				return
			}
			srcURL, err := url.Parse(src)
			if err != nil {
				return
			}
			imageURL := base.ResolveReference(srcURL).String()
			resources = append(resources, types.CrawledResource{
				URL:         imageURL,
				Type:        types.ResourceImage,
				Title:       FilenameFromURL(imageURL),
				ContentHash: HashString(imageURL),
				SourceURL:   pageURL,
			})
		})
	}

	if opts.IncludePdfs {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, exists := s.Attr("href")
			if !exists || !strings.Contains(strings.ToLower(href), ".pdf") {
				return
			}
			hrefURL, err := url.Parse(href)
			if err != nil {
				return
			}
			pdfURL := base.ResolveReference(hrefURL).String()
			resources = append(resources, types.CrawledResource{
				URL:         pdfURL,
				Type:        types.ResourcePDF,
				Title:       FilenameFromURL(pdfURL),
				ContentHash: HashString(pdfURL),
				SourceURL:   pageURL,
			})
		})
	}

	return resources, nil
}

// DirectResource records a non-HTML response encountered directly at a URL
// (a PDF document or an image served without a surrounding page).
func DirectResource(rawURL string, rtype types.ResourceType, size int64) types.CrawledResource {
	return types.CrawledResource{
		URL:         rawURL,
		Type:        rtype,
		Title:       FilenameFromURL(rawURL),
		ContentHash: HashString(rawURL),
		SourceURL:   rawURL,
		Size:        &size,
	}
}

// ExtractLinks extracts all same-origin links from HTML content, resolved
// absolute with fragments stripped and query strings preserved.
func ExtractLinks(htmlContent string, pageURL string, origin string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &LinkExtractionError{
			Message: fmt.Sprintf("invalid base URL: %s (must have scheme and host)", pageURL),
			Cause:   err,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &LinkExtractionError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	linkSet := make(map[string]bool)
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			// Skip malformed URLs
			return
		}

		absoluteURL := base.ResolveReference(linkURL)
		if Origin(absoluteURL) != origin {
			return
		}

		absoluteURL.Fragment = ""
		urlString := absoluteURL.String()

		if !linkSet[urlString] {
			linkSet[urlString] = true
			links = append(links, urlString)
		}
	})

	return links, nil
}

// Origin returns the scheme://host portion of a URL, the boundary used for
// same-origin link filtering.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// FilenameFromURL returns the last path segment of a URL, or "file" when the
// path is empty.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "file"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
