// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AssistantReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_assistant_replies_total",
			Help: "Assistant replies by requester role and inferred commodity",
		},
		[]string{"role", "commodity"},
	)

	AssistantFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_assistant_failures_total",
			Help: "Assistant requests that could not be answered",
		},
	)

	ProductsListed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_products_listed_total",
			Help: "Products created by sellers",
		},
	)
)
