package services

import (
	"context"

	"github.com/gcbaptista/site-search/model"
)

// MatchFlags records which fields of a document contained the query.
type MatchFlags struct {
	Title      bool `json:"title"`
	Content    bool `json:"content"`
	Tags       bool `json:"tags"`       // True if any tag contains the query
	Categories bool `json:"categories"` // True if any category contains the query
}

// Any reports whether at least one field matched.
func (m MatchFlags) Any() bool {
	return m.Title || m.Content || m.Tags || m.Categories
}

// ScoredResult is one matching document for a query. It is recomputed per query.
type ScoredResult struct {
	Document *model.Document `json:"document"` // Points into the searched collection
	Score    int             `json:"score"`
	Matches  MatchFlags      `json:"matches"`
}

// CollectionSource provides the document collection for a session,
// loading it on first use.
type CollectionSource interface {
	Get(ctx context.Context) (model.Collection, error)
	Cached() (model.Collection, bool)
	Invalidate()
}

// Searcher defines operations for querying a collection
type Searcher interface {
	Search(query string, docs model.Collection) []ScoredResult
}
