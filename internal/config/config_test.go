package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"url": "https://example.com",
		"max_depth": 3,
		"include_images": true,
		"include_text": false,
		"port": 9090
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.True(t, cfg.IncludeImages)
	require.NotNil(t, cfg.IncludeText)
	assert.False(t, *cfg.IncludeText)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadConfig_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, `{"maxdepth": 3}`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_OutOfRangeRejected(t *testing.T) {
	path := writeConfig(t, `{"max_depth": 12}`)
	_, err := LoadConfig(path)
	require.Error(t, err)

	path = writeConfig(t, `{"port": 0}`)
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	_, err = LoadConfig("")
	require.Error(t, err)
}

func TestCrawlOptions_TextDefaultsOn(t *testing.T) {
	cfg := &Config{IncludeImages: true}
	opts := cfg.CrawlOptions()
	assert.True(t, opts.IncludeText)
	assert.True(t, opts.IncludeImages)
	assert.False(t, opts.IncludePdfs)

	off := false
	cfg = &Config{IncludeText: &off}
	assert.False(t, cfg.CrawlOptions().IncludeText)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{URL: "https://flag.example"}
	merged := cfg.MergeWithDefaults(Config{
		URL:         "https://file.example",
		DatabaseURL: "postgres://localhost/askly",
		MaxDepth:    4,
	})

	assert.Equal(t, "https://flag.example", merged.URL, "flag value wins")
	assert.Equal(t, "postgres://localhost/askly", merged.DatabaseURL)
	assert.Equal(t, 4, merged.MaxDepth)
}
