package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gcbaptista/site-search/model"
)

// mockSource is a simple CollectionSource for testing
type mockSource struct {
	docs   model.Collection
	loaded bool
}

func (m *mockSource) Get(_ context.Context) (model.Collection, error) { return m.docs, nil }
func (m *mockSource) Cached() (model.Collection, bool)                { return m.docs, m.loaded }
func (m *mockSource) Invalidate()                                     { m.loaded = false }

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	service := NewService(nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	service.TrackSearchEvent(model.SearchEvent{
		QueryID:      "q-1",
		Query:        "rust",
		ResponseTime: 2 * time.Millisecond,
		ResultCount:  3,
	})

	if len(service.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(service.events))
	}
	stored := service.events[0]
	if stored.Query != "rust" || stored.ResultCount != 3 {
		t.Errorf("Unexpected stored event: %+v", stored)
	}
	if !stored.Timestamp.Equal(fixed) {
		t.Errorf("Expected timestamp %v, got %v", fixed, stored.Timestamp)
	}
}

func TestAnalyticsService_BoundedEvents(t *testing.T) {
	service := NewService(nil)
	service.maxEvents = 3

	for i := 0; i < 5; i++ {
		service.TrackSearchEvent(model.SearchEvent{Query: fmt.Sprintf("q%d", i)})
	}

	if len(service.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(service.events))
	}
	if service.events[0].Query != "q2" {
		t.Errorf("Expected oldest kept event to be q2, got %s", service.events[0].Query)
	}
}

func TestAnalyticsService_GetSummary(t *testing.T) {
	source := &mockSource{docs: model.Collection{{Title: "a"}, {Title: "b"}}, loaded: true}
	service := NewService(source)

	events := []model.SearchEvent{
		{Query: "rust", ResponseTime: 2 * time.Millisecond, ResultCount: 2},
		{Query: "Rust ", ResponseTime: 4 * time.Millisecond, ResultCount: 2},
		{Query: "haskell", ResponseTime: 3 * time.Millisecond, ResultCount: 0},
		{Query: "go", ResponseTime: 3 * time.Millisecond, ResultCount: 4},
	}
	for _, e := range events {
		service.TrackSearchEvent(e)
	}

	summary := service.GetSummary()

	if summary.TotalSearches != 4 {
		t.Errorf("Expected 4 searches, got %d", summary.TotalSearches)
	}
	if summary.ZeroResultCount != 1 {
		t.Errorf("Expected 1 zero-result search, got %d", summary.ZeroResultCount)
	}
	if summary.AvgResponseTimeMs != 3 {
		t.Errorf("Expected average response time 3ms, got %v", summary.AvgResponseTimeMs)
	}
	if summary.AvgResultCount != 2 {
		t.Errorf("Expected average result count 2, got %v", summary.AvgResultCount)
	}
	if len(summary.PopularSearches) != 3 || summary.PopularSearches[0].Query != "rust" || summary.PopularSearches[0].SearchCount != 2 {
		t.Errorf("Unexpected popular searches: %+v", summary.PopularSearches)
	}
	if summary.PopularSearches[1].Query != "haskell" {
		t.Errorf("Expected ties to keep first-seen order, got %+v", summary.PopularSearches)
	}
	if len(summary.ZeroResultQueries) != 1 || summary.ZeroResultQueries[0].Query != "haskell" {
		t.Errorf("Unexpected zero-result queries: %+v", summary.ZeroResultQueries)
	}
	if !summary.CollectionLoaded || summary.DocumentCount != 2 {
		t.Errorf("Expected loaded collection with 2 documents, got %+v", summary)
	}
}

func TestAnalyticsService_EmptySummary(t *testing.T) {
	summary := NewService(&mockSource{}).GetSummary()

	if summary.TotalSearches != 0 || summary.CollectionLoaded {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.PopularSearches == nil || summary.ZeroResultQueries == nil {
		t.Error("Expected empty, non-nil query lists")
	}
}

func TestAnalyticsService_TopFive(t *testing.T) {
	service := NewService(nil)
	for i := 0; i < 8; i++ {
		service.TrackSearchEvent(model.SearchEvent{Query: fmt.Sprintf("query-%d", i), ResultCount: 1})
	}

	if got := len(service.GetSummary().PopularSearches); got != 5 {
		t.Errorf("Expected top 5 queries, got %d", got)
	}
}
