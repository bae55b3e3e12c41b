package crawling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/askly/internal/types"
)

const samplePage = `<html>
<head><title>Product Docs</title></head>
<body>
<nav>Home | Pricing | Docs</nav>
<main>
<p>Our product helps support teams answer customer questions faster by
searching the entire knowledge base in milliseconds.</p>
<img src="/assets/diagram.png" alt="architecture">
<img src="data:image/png;base64,AAAA" alt="inline">
<img src="/assets/logo.svg" alt="logo">
<a href="/files/Handbook.PDF">Handbook</a>
<a href="/pricing">Pricing</a>
</main>
<footer>Copyright</footer>
</body>
</html>`

func allOptions() types.CrawlOptions {
	return types.CrawlOptions{IncludeText: true, IncludeImages: true, IncludePdfs: true}
}

func TestExtractResources_Text(t *testing.T) {
	resources, err := ExtractResources(samplePage, "https://example.com/docs", types.CrawlOptions{IncludeText: true})
	require.NoError(t, err)
	require.Len(t, resources, 1)

	r := resources[0]
	assert.Equal(t, types.ResourceText, r.Type)
	assert.Equal(t, "Product Docs", r.Title)
	assert.Equal(t, "https://example.com/docs", r.URL)
	assert.Equal(t, "https://example.com/docs", r.SourceURL)
	assert.NotEmpty(t, r.ContentHash)
}

func TestExtractResources_ShortTextSkipped(t *testing.T) {
	html := `<html><head><title>Stub</title></head><body><p>Too short.</p></body></html>`
	resources, err := ExtractResources(html, "https://example.com", types.CrawlOptions{IncludeText: true})
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestExtractResources_DefaultTitle(t *testing.T) {
	html := `<html><body><p>` + strings.Repeat("content ", 20) + `</p></body></html>`
	resources, err := ExtractResources(html, "https://example.com", types.CrawlOptions{IncludeText: true})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, DefaultPageTitle, resources[0].Title)
}

func TestExtractResources_Images(t *testing.T) {
	resources, err := ExtractResources(samplePage, "https://example.com/docs", types.CrawlOptions{IncludeImages: true})
	require.NoError(t, err)
	require.Len(t, resources, 1, "data: URIs and .svg files are skipped")

	r := resources[0]
	assert.Equal(t, types.ResourceImage, r.Type)
	assert.Equal(t, "https://example.com/assets/diagram.png", r.URL)
	assert.Equal(t, "diagram.png", r.Title)
	assert.Equal(t, HashString(r.URL), r.ContentHash)
}

func TestExtractResources_Pdfs(t *testing.T) {
	resources, err := ExtractResources(samplePage, "https://example.com/docs", types.CrawlOptions{IncludePdfs: true})
	require.NoError(t, err)
	require.Len(t, resources, 1)

	r := resources[0]
	assert.Equal(t, types.ResourcePDF, r.Type)
	assert.Equal(t, "https://example.com/files/Handbook.PDF", r.URL)
	assert.Equal(t, "Handbook.PDF", r.Title)
}

func TestExtractResources_OptionsOff(t *testing.T) {
	resources, err := ExtractResources(samplePage, "https://example.com/docs", types.CrawlOptions{})
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestExtractResources_InvalidPageURL(t *testing.T) {
	_, err := ExtractResources(samplePage, "/relative/only", allOptions())
	require.Error(t, err)
}

func TestDirectResource(t *testing.T) {
	r := DirectResource("https://example.com/files/guide.pdf", types.ResourcePDF, 2048)
	assert.Equal(t, types.ResourcePDF, r.Type)
	assert.Equal(t, "guide.pdf", r.Title)
	require.NotNil(t, r.Size)
	assert.Equal(t, int64(2048), *r.Size)
	assert.Equal(t, HashString(r.URL), r.ContentHash)
	assert.Equal(t, r.URL, r.SourceURL)
}

func TestExtractLinks_SameOriginOnly(t *testing.T) {
	html := `<html><body>
	<a href="/pricing">Pricing</a>
	<a href="https://example.com/about#team">About</a>
	<a href="https://other.com/page">External</a>
	<a href="/pricing">Duplicate</a>
	</body></html>`

	links, err := ExtractLinks(html, "https://example.com/docs", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/pricing",
		"https://example.com/about",
	}, links)
}

func TestExtractLinks_InvalidBase(t *testing.T) {
	_, err := ExtractLinks("<html></html>", "nope", "https://example.com")
	require.Error(t, err)
	var extractErr *LinkExtractionError
	assert.ErrorAs(t, err, &extractErr)
}

func TestFilenameFromURL(t *testing.T) {
	assert.Equal(t, "guide.pdf", FilenameFromURL("https://example.com/files/guide.pdf?v=2"))
	assert.Equal(t, "annual report.pdf", FilenameFromURL("https://example.com/annual%20report.pdf"))
	assert.Equal(t, "file", FilenameFromURL("https://example.com/"))
	assert.Equal(t, "file", FilenameFromURL("https://example.com"))
}

func TestDedupeByHash(t *testing.T) {
	resources := []types.CrawledResource{
		{URL: "a", ContentHash: "h1"},
		{URL: "b", ContentHash: "h2"},
		{URL: "c", ContentHash: "h1"},
	}
	deduped := dedupeByHash(resources)
	require.Len(t, deduped, 2)
	assert.Equal(t, "a", deduped[0].URL)
	assert.Equal(t, "b", deduped[1].URL)
}
