// Package metrics defines the custom Prometheus metrics of the PixelCore API.
// HTTP request metrics come from echoprometheus; these cover domain outcomes.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pixelcore"

// ── Rating metrics ────────────────────────────────────────────────────────────

// RatingsCreatedTotal counts stored ratings.
// Label:
//   - value: the submitted score, "1" to "5"
var RatingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_created_total",
		Help:      "Total number of ratings created, by score.",
	},
	[]string{"value"},
)

// RatingsRejectedTotal counts rating writes that were refused.
// Label:
//   - reason: "duplicate", "validation", "forbidden" or "not_found"
var RatingsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_rejected_total",
		Help:      "Total number of rating writes rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ContentOperationsTotal counts successful content writes.
// Label:
//   - operation: "create", "update" or "delete"
var ContentOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_operations_total",
		Help:      "Total number of successful media content writes, by operation.",
	},
	[]string{"operation"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts auth endpoint outcomes.
// Labels:
//   - operation: "register", "login", "refresh" or "logout"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of auth requests, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthResult maps an error to the result label of AuthAttemptsTotal.
func AuthResult(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
