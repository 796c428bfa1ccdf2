// Package metrics provides Prometheus metrics for the fern api and web client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks inbound HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "http_server",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"service", "method", "route", "status_code"},
	)

	// RequestDuration tracks inbound HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "http_server",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"service", "method", "route"},
	)

	// HTTPClientRequestsTotal tracks outbound requests from the web client to the api
	HTTPClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)

	// HTTPClientRequestDuration tracks outbound request duration
	HTTPClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	// RelatedFetchesTotal tracks related-collection fetches by the path that answered them
	RelatedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "relations",
			Name:      "fetches_total",
			Help:      "Related collection fetches by kind and path (filtered, broad_scan, error)",
		},
		[]string{"kind", "path"},
	)

	// PartialLoadsTotal tracks detail views rendered with a missing collection
	PartialLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "relations",
			Name:      "partial_loads_total",
			Help:      "Friend detail loads where a related collection failed",
		},
		[]string{"kind"},
	)

	// FriendScanPages tracks how many listing pages the loader read to find a friend
	FriendScanPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "relations",
			Name:      "friend_scan_pages",
			Help:      "Listing pages scanned to locate a friend",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	// OverviewCacheLookups tracks overview cache hits and misses
	OverviewCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "cache",
			Name:      "overview_lookups_total",
			Help:      "Overview cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// EventsPublishedTotal tracks change events sent to kafka
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Change events published by type and status",
		},
		[]string{"event_type", "status"},
	)
)
