// Package metrics defines and registers the Prometheus metrics of the portal
// client and its sandbox server. It is the single source of truth for metric
// names, labels, and help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Transport metrics ─────────────────────────────────────────────────────────

// TransportRequestsTotal counts round trips to the remote API.
// Labels:
//   - method: HTTP method
//   - status: HTTP status code, or "error" when no response was received
var TransportRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transport_requests_total",
		Help:      "Total number of requests sent to the remote API.",
	},
	[]string{"method", "status"},
)

// TransportRequestDuration measures round-trip latency.
var TransportRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transport_request_duration_seconds",
		Help:      "Duration of requests sent to the remote API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts resource cache lookups.
// Labels:
//   - cache: cache instance name (e.g. "employees", "qualifications")
//   - result: "hit", "miss" or "expired"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of resource cache lookups, by cache and result.",
	},
	[]string{"cache", "result"},
)

// CacheInvalidationsTotal counts explicit invalidations.
// Label:
//   - scope: "key" or "all"
var CacheInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Total number of cache invalidations.",
	},
	[]string{"cache", "scope"},
)

// ── Envelope metrics ──────────────────────────────────────────────────────────

// NormalizationFailuresTotal counts envelopes that could not be normalized.
// Label:
//   - reason: "declined", "unrecognized_shape" or "invalid_json"
var NormalizationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "normalization_failures_total",
		Help:      "Total number of response envelopes that failed normalization.",
	},
	[]string{"reason"},
)

// DemoFallbacksTotal counts reports served from sample data in demo mode.
var DemoFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_demo_fallbacks_total",
		Help:      "Total number of dashboard reports served from demo data.",
	},
	[]string{"report"},
)

// ── Sandbox metrics ───────────────────────────────────────────────────────────

// SandboxBookingsCreatedTotal counts bookings accepted by the sandbox API.
var SandboxBookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sandbox_bookings_created_total",
		Help:      "Total number of bookings created on the sandbox API, by service.",
	},
	[]string{"service_id"},
)
