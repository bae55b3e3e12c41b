package crawling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/askly/internal/types"
)

type fakeJobStore struct {
	mu       sync.Mutex
	created  int
	jobID    uuid.UUID
	statuses []types.JobStatus
	patches  []StatusPatch
	saved    []types.CrawledResource
}

func (f *fakeJobStore) CreateCrawlJob(_ context.Context, _ uuid.UUID, _ string, _ int, _ types.CrawlOptions) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	f.jobID = uuid.New()
	return f.jobID, nil
}

func (f *fakeJobStore) UpdateCrawlJobStatus(_ context.Context, _ uuid.UUID, patch StatusPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, patch.Status)
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeJobStore) SaveCrawlResults(_ context.Context, _ uuid.UUID, resources []types.CrawledResource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, resources...)
	return nil
}

func (f *fakeJobStore) lastStatus() (types.JobStatus, StatusPatch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return "", StatusPatch{}
	}
	return f.statuses[len(f.statuses)-1], f.patches[len(f.patches)-1]
}

func TestStartCrawl_RunsJobToCompletion(t *testing.T) {
	srv := testSite(t)
	defer srv.Close()

	store := &fakeJobStore{}
	runner := NewRunner(store, fastCrawler())

	jobID, err := runner.StartCrawl(context.Background(), uuid.New(), CrawlRequest{
		URL:      srv.URL,
		MaxDepth: 1,
		Options:  types.CrawlOptions{IncludeText: true, IncludeImages: true, IncludePdfs: true},
	})
	require.NoError(t, err)
	assert.Equal(t, store.jobID, jobID)

	require.Eventually(t, func() bool {
		status, _ := store.lastStatus()
		return status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	status, patch := store.lastStatus()
	assert.Equal(t, types.StatusCompleted, status)
	require.NotNil(t, patch.PagesVisited)
	require.NotNil(t, patch.ResourcesFound)
	assert.Equal(t, len(store.saved), *patch.ResourcesFound)
	assert.NotEmpty(t, store.saved)

	// The crawling transition happened before the terminal one
	assert.Equal(t, types.JobStatus("crawling"), store.statuses[0])
}

func TestStartCrawl_InvalidURLCreatesNoJob(t *testing.T) {
	store := &fakeJobStore{}
	runner := NewRunner(store, fastCrawler())

	_, err := runner.StartCrawl(context.Background(), uuid.New(), CrawlRequest{URL: "ftp://example.com"})
	require.Error(t, err)
	assert.Zero(t, store.created)
}

func robotsDenyAllServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	})
	return httptest.NewServer(mux)
}

func TestStartCrawl_RobotsDenialCreatesNoJob(t *testing.T) {
	srv := robotsDenyAllServer()
	defer srv.Close()

	store := &fakeJobStore{}
	runner := NewRunner(store, fastCrawler())

	_, err := runner.StartCrawl(context.Background(), uuid.New(), CrawlRequest{
		URL:      srv.URL + "/docs",
		MaxDepth: 1,
	})
	require.Error(t, err)
	assert.Zero(t, store.created)
}
