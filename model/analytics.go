package model

import "time"

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	QueryID      string        `json:"query_id"`
	Query        string        `json:"query"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// AnalyticsSummary is the aggregated view over the recorded search events
type AnalyticsSummary struct {
	TotalSearches     int             `json:"total_searches"`
	ZeroResultCount   int             `json:"zero_result_count"`
	AvgResponseTimeMs float64         `json:"avg_response_time_ms"`
	AvgResultCount    float64         `json:"avg_result_count"`
	PopularSearches   []PopularSearch `json:"popular_searches"`
	ZeroResultQueries []PopularSearch `json:"zero_result_queries"`
	DocumentCount     int             `json:"document_count"`
	CollectionLoaded  bool            `json:"collection_loaded"`
}
