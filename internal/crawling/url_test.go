package crawling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeedURL(t *testing.T) {
	u, err := ValidateSeedURL("https://example.com/docs")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)

	u, err = ValidateSeedURL("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
}

func TestValidateSeedURL_RejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{
		"ftp://example.com/file.txt",
		"file:///etc/passwd",
		"javascript:alert(1)",
	} {
		_, err := ValidateSeedURL(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrInvalidURL), raw)
	}
}

func TestValidateSeedURL_RejectsMalformed(t *testing.T) {
	_, err := ValidateSeedURL("not a url")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidURL))

	_, err = ValidateSeedURL("")
	require.Error(t, err)
}

func TestNormalizeURL_StripsFragment(t *testing.T) {
	got, err := NormalizeURL("https://example.com/page#section-2")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", got)
}

func TestNormalizeURL_TrailingSlash(t *testing.T) {
	got, err := NormalizeURL("https://example.com/docs/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", got)

	// The root path keeps its slash
	got, err = NormalizeURL("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got)
}

func TestNormalizeURL_PreservesQuery(t *testing.T) {
	got, err := NormalizeURL("https://example.com/search?q=pricing#top")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search?q=pricing", got)
}

func TestOrigin(t *testing.T) {
	u, err := ValidateSeedURL("https://example.com:8443/docs/page")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:8443", Origin(u))
}
