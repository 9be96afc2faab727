// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baniya_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "baniya_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baniya_recommendations_total",
			Help: "Recommendation requests by cache outcome",
		},
		[]string{"cache"},
	)

	Comparisons = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "baniya_comparisons_total",
			Help: "Price comparisons computed",
		},
	)

	ComparisonFlaggedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baniya_comparison_flagged_items_total",
			Help: "Items excluded from comparison totals",
		},
		[]string{"reason"},
	)

	FundAdditions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "baniya_fund_additions_total",
			Help: "Amounts added to the savings fund",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baniya_catalog_reloads_total",
			Help: "Catalog loads by result",
		},
		[]string{"result"},
	)

	CatalogCards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "baniya_catalog_cards",
			Help: "Cards in the active catalog",
		},
	)
)
