package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/site-search/model"
	"github.com/gcbaptista/site-search/services"
)

const (
	defaultMaxEvents = 10000 // Keep last 10k events
	topQueries       = 5
)

// Service implements in-memory search analytics tracking and reporting
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	source    services.CollectionSource
	now       func() time.Time
}

// NewService creates a new analytics service. source may be nil.
func NewService(source services.CollectionSource) *Service {
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: defaultMaxEvents,
		source:    source,
		now:       time.Now,
	}
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	event.Timestamp = s.now()
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
}

// GetSummary returns the aggregated analytics over the recorded events
func (s *Service) GetSummary() model.AnalyticsSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := model.AnalyticsSummary{
		TotalSearches:     len(s.events),
		PopularSearches:   []model.PopularSearch{},
		ZeroResultQueries: []model.PopularSearch{},
	}

	if s.source != nil {
		if docs, ok := s.source.Cached(); ok {
			summary.CollectionLoaded = true
			summary.DocumentCount = len(docs)
		}
	}

	if len(s.events) == 0 {
		return summary
	}

	var totalTime time.Duration
	totalResults := 0
	var zeroResultEvents []model.SearchEvent
	for _, event := range s.events {
		totalTime += event.ResponseTime
		totalResults += event.ResultCount
		if event.ResultCount == 0 {
			zeroResultEvents = append(zeroResultEvents, event)
		}
	}

	summary.ZeroResultCount = len(zeroResultEvents)
	summary.AvgResponseTimeMs = float64(totalTime.Microseconds()) / 1000 / float64(len(s.events))
	summary.AvgResultCount = float64(totalResults) / float64(len(s.events))
	summary.PopularSearches = s.getPopularSearches(s.events)
	summary.ZeroResultQueries = s.getPopularSearches(zeroResultEvents)

	return summary
}

// getPopularSearches returns the most frequent queries. Queries are compared
// case-insensitively since search itself is case-insensitive.
func (s *Service) getPopularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, event := range events {
		q := strings.ToLower(strings.TrimSpace(event.Query))
		if q == "" {
			continue
		}
		if _, ok := queryCounts[q]; !ok {
			firstSeen[q] = i
		}
		queryCounts[q]++
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	// Sort by count descending, earliest first among equal counts
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return firstSeen[popular[i].Query] < firstSeen[popular[j].Query]
	})

	if len(popular) > topQueries {
		popular = popular[:topQueries]
	}
	return popular
}
