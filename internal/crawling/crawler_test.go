package crawling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/askly/internal/types"
)

// testSite serves a small two-page site with an image and a PDF.
func testSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	filler := strings.Repeat("All about our product and how to use it. ", 5)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><title>Home</title></head><body>
			<p>%s</p>
			<a href="/about">About</a>
			<a href="/about#team">About again</a>
			<img src="/logo.png">
			<a href="/guide.pdf">Guide</a>
			</body></html>`, filler)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><title>About</title></head><body><p>Company history. %s</p></body></html>`, filler)
	})
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/guide.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	return httptest.NewServer(mux)
}

func fastCrawler() *Crawler {
	return NewCrawler().WithDelay(0)
}

func TestCrawl_TwoPageSite(t *testing.T) {
	srv := testSite(t)
	defer srv.Close()

	outcome, err := fastCrawler().Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 2,
		Options:  types.CrawlOptions{IncludeText: true, IncludeImages: true, IncludePdfs: true},
	})
	require.NoError(t, err)

	// Home, /about, and the direct /guide.pdf fetch all count as visits
	assert.Equal(t, 3, outcome.PagesVisited)

	byType := map[types.ResourceType]int{}
	for _, r := range outcome.Resources {
		byType[r.Type]++
	}
	assert.Equal(t, 2, byType[types.ResourceText], "one text resource per page")
	assert.Equal(t, 1, byType[types.ResourceImage])
	assert.Equal(t, 1, byType[types.ResourcePDF])
}

func TestCrawl_DepthZeroStaysOnSeed(t *testing.T) {
	srv := testSite(t)
	defer srv.Close()

	outcome, err := fastCrawler().Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 0,
		Options:  types.CrawlOptions{IncludeText: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.PagesVisited)
	require.Len(t, outcome.Resources, 1)
	assert.Equal(t, "Home", outcome.Resources[0].Title)
}

func TestCrawl_TextOnly(t *testing.T) {
	srv := testSite(t)
	defer srv.Close()

	outcome, err := fastCrawler().Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 1,
		Options:  types.CrawlOptions{IncludeText: true},
	})
	require.NoError(t, err)
	for _, r := range outcome.Resources {
		assert.Equal(t, types.ResourceText, r.Type)
	}
}

func TestCrawl_ResourceCap(t *testing.T) {
	// Every page links to the next one, each yielding a distinct text resource.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		n := len(r.URL.Path)
		fmt.Fprintf(w, `<html><head><title>Page %d</title></head><body>
			<p>Unique page content number %d padded out to exceed the length floor.</p>
			<a href="%sx">next</a></body></html>`, n, n, r.URL.Path)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	crawler := fastCrawler()
	crawler.maxResources = 5

	outcome, err := crawler.Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 100,
		Options:  types.CrawlOptions{IncludeText: true},
	})
	require.NoError(t, err)
	assert.Len(t, outcome.Resources, 5)
}

func TestCrawl_FetchFailureSkipsPage(t *testing.T) {
	filler := strings.Repeat("Plenty of meaningful page text for extraction. ", 3)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>Home</title></head><body><p>%s</p>
			<a href="/broken">broken</a><a href="/ok">ok</a></body></html>`, filler)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>OK</title></head><body><p>%s</p></body></html>`, filler)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	outcome, err := fastCrawler().Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 1,
		Options:  types.CrawlOptions{IncludeText: true},
	})
	require.NoError(t, err)
	// The broken page still counts as visited but yields nothing
	assert.Equal(t, 3, outcome.PagesVisited)
	assert.Len(t, outcome.Resources, 2)
}

func TestCrawl_OversizedPageSkipped(t *testing.T) {
	filler := strings.Repeat("Plenty of meaningful page text for extraction. ", 3)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>Home</title></head><body><p>%s</p>
			<a href="/huge">huge</a><a href="/ok">ok</a></body></html>`, filler)
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><p>%s</p></body></html>`, strings.Repeat("x", 8192))
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>OK</title></head><body><p>%s</p></body></html>`, filler)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	crawler := fastCrawler()
	crawler.fetchOpts.MaxBytes = 4096

	outcome, err := crawler.Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 1,
		Options:  types.CrawlOptions{IncludeText: true},
	})
	require.NoError(t, err)
	// The oversized page counts as visited but contributes nothing, and the
	// crawl still drains to completion
	assert.Equal(t, 3, outcome.PagesVisited)
	require.Len(t, outcome.Resources, 2)
	for _, r := range outcome.Resources {
		assert.NotContains(t, r.URL, "/huge")
	}
}

func TestCrawl_InvalidSeed(t *testing.T) {
	_, err := fastCrawler().Crawl(context.Background(), CrawlRequest{URL: "ftp://example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidURL))
}

func TestCrawl_RobotsDisallowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := fastCrawler().Crawl(context.Background(), CrawlRequest{
		URL:      srv.URL + "/docs",
		MaxDepth: 1,
		Options:  types.CrawlOptions{IncludeText: true},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRobotsDisallowed))
}
