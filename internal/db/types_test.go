package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlResult_JSONShape(t *testing.T) {
	r := CrawlResult{
		ID:          uuid.New(),
		JobID:       uuid.New(),
		URL:         "https://example.com/guide.pdf",
		Type:        "pdf",
		Title:       "guide.pdf",
		ContentHash: "abc",
		SourceURL:   "https://example.com",
		Selected:    true,
		CreatedAt:   time.Now(),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	// Clients read the selection and ingestion flags off every listed result
	assert.Equal(t, true, out["selected"])
	assert.Equal(t, false, out["added_to_knowledge_base"])
	assert.NotContains(t, out, "position")
	assert.NotContains(t, out, "kb_entry_id")
}
