// Package metrics holds the Prometheus collectors for index loads and searches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Load outcomes used as the "status" label of IndexLoadsTotal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	IndexLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "site_search",
			Name:      "index_loads_total",
			Help:      "Total number of search index fetches",
		},
		[]string{"status"},
	)

	IndexLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "site_search",
			Name:      "index_load_duration_seconds",
			Help:      "Search index fetch and decode duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "site_search",
			Name:      "index_documents",
			Help:      "Number of documents in the most recently loaded collection",
		},
	)

	SearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "site_search",
			Name:      "searches_total",
			Help:      "Total number of executed searches",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "site_search",
			Name:      "search_duration_seconds",
			Help:      "Time spent scoring and sorting one query",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "site_search",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
)

func init() {
	prometheus.MustRegister(IndexLoadsTotal)
	prometheus.MustRegister(IndexLoadDuration)
	prometheus.MustRegister(IndexDocuments)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
}
