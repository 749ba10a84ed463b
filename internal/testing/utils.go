// Package testing provides utilities and helpers for testing site search.
package testing

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/site-search/internal/errors"
	"github.com/gcbaptista/site-search/model"
	"github.com/gcbaptista/site-search/services"
)

// SampleIndex is a small search index in the {"posts": [...]} layout.
const SampleIndex = `{"posts": [
  {"title": "Rust Guide", "url": "/rust-guide/", "content": "All about rust.", "tags": ["systems"]},
  {"title": "Go Tutorial", "url": "/go-tutorial/", "content": "... rust mentioned ...", "tags": []},
  {"title": "Go Modules", "path": "go-modules/", "content": "Dependency management.", "categories": [{"name": "Go"}]}
]}`

// SampleDocuments returns the documents SampleIndex normalizes to.
func SampleDocuments() model.Collection {
	return model.Collection{
		{Title: "Rust Guide", URL: "/rust-guide/", Content: "All about rust.", Tags: []string{"systems"}, Categories: []string{}},
		{Title: "Go Tutorial", URL: "/go-tutorial/", Content: "... rust mentioned ...", Tags: []string{}, Categories: []string{}},
		{Title: "Go Modules", URL: "go-modules/", Content: "Dependency management.", Tags: []string{}, Categories: []string{"Go"}},
	}
}

// WriteIndexFile writes body to a search.json in a per-test directory and
// returns its path.
func WriteIndexFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600), "Failed to write test index")
	return path
}

// StubFetcher serves SampleDocuments (or Docs when set) and counts loads.
// When Gate is set, every load waits for a value or close. When Fail is set,
// loads fail with a 500 LoadError.
type StubFetcher struct {
	Docs  model.Collection
	Gate  chan struct{}
	Fail  atomic.Bool
	calls int32
}

// Load implements loader.Fetcher.
func (f *StubFetcher) Load(ctx context.Context, source string) (model.Collection, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Fail.Load() {
		return nil, internalErrors.NewStatusLoadError(source, 500)
	}
	if f.Docs != nil {
		return f.Docs, nil
	}
	return SampleDocuments(), nil
}

// Calls returns how many loads have started.
func (f *StubFetcher) Calls() int32 {
	return atomic.LoadInt32(&f.calls)
}

// PollingOptions configures WaitFor
type PollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultPollingOptions returns sensible defaults for polling asynchronous state
func DefaultPollingOptions() PollingOptions {
	return PollingOptions{
		Timeout:      2 * time.Second,
		PollInterval: time.Millisecond,
	}
}

// WaitFor polls cond until it holds, failing the test after opts.Timeout.
func WaitFor(t *testing.T, cond func() bool, opts PollingOptions, msgAndArgs ...interface{}) {
	t.Helper()
	require.Eventually(t, cond, opts.Timeout, opts.PollInterval, msgAndArgs...)
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Query         string
	ExpectedCount int
	ExpectedFirst string // Expected title of the first result
	ValidateFunc  func(t *testing.T, results []services.ScoredResult)
}

// RunSearchTests runs a suite of search tests against a collection
func RunSearchTests(t *testing.T, searcher services.Searcher, docs model.Collection, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results := searcher.Search(tt.Query, docs)

			assert.Len(t, results, tt.ExpectedCount, "Result count should match")

			if tt.ExpectedFirst != "" && len(results) > 0 {
				assert.Equal(t, tt.ExpectedFirst, results[0].Document.Title, "First result should match expected")
			}

			for i := 1; i < len(results); i++ {
				assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "Results should be ordered by score")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, results)
			}
		})
	}
}
