package search

import (
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/site-search/internal/logger"
	"github.com/gcbaptista/site-search/internal/metrics"
	"github.com/gcbaptista/site-search/model"
	"github.com/gcbaptista/site-search/services"
)

// Service runs searches with a fixed minimum query length and records
// metrics for them. It fulfills the services.Searcher interface.
type Service struct {
	minChars int
	logger   *zap.Logger
}

// NewService creates a new search Service.
func NewService(minChars int, log *zap.Logger) *Service {
	if minChars < 1 {
		minChars = 1
	}
	return &Service{minChars: minChars, logger: logger.OrNop(log)}
}

// MinChars returns the minimum query length the service will execute.
func (s *Service) MinChars() int {
	return s.minChars
}

// Search implements services.Searcher.
func (s *Service) Search(query string, docs model.Collection) []services.ScoredResult {
	if !IsSearchable(query, s.minChars) {
		return []services.ScoredResult{}
	}

	startTime := time.Now()
	results := Search(query, docs, s.minChars)
	took := time.Since(startTime)

	metrics.SearchesTotal.Inc()
	metrics.SearchDuration.Observe(took.Seconds())
	metrics.SearchResults.Observe(float64(len(results)))

	s.logger.Debug("search executed",
		zap.String("query", NormalizeQuery(query)),
		zap.Int("documents", len(docs)),
		zap.Int("results", len(results)),
		zap.Duration("took", took),
	)
	return results
}
