package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMaxDepth(t *testing.T) {
	// Explicit --max-depth 0 means a seed-only crawl, not the default
	assert.Equal(t, 0, resolveMaxDepth(true, 0, 0))

	// Unset flag falls back to the config file value, then the default
	assert.Equal(t, 3, resolveMaxDepth(false, 0, 3))
	assert.Equal(t, 2, resolveMaxDepth(false, 0, 0))

	// The flag overrides the config file
	assert.Equal(t, 1, resolveMaxDepth(true, 1, 4))

	// Clamped to the supported range
	assert.Equal(t, 5, resolveMaxDepth(true, 9, 0))
	assert.Equal(t, 5, resolveMaxDepth(false, 0, 9))
	assert.Equal(t, 0, resolveMaxDepth(true, -3, 0))
}
