// SPDX-License-Identifier: MIT
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_store_operations_total",
		Help: "Note store operations by backend, operation and result",
	}, []string{"backend", "op", "result"})

	storeOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewlog_store_operation_duration_seconds",
		Help:    "Note store operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "op"})

	configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_config_reloads_total",
		Help: "Configuration hot reloads by result",
	}, []string{"result"})

	configValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewlog_config_validation_errors_total",
		Help: "Total number of configuration validation errors",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewlog_http_requests_total",
		Help: "API requests by route pattern and status code",
	}, []string{"route", "code"})
)

// ObserveStoreOp records one store call started at start.
func ObserveStoreOp(backend, op string, start time.Time, err error) {
	storeOps.WithLabelValues(backend, op, resultLabel(err)).Inc()
	storeOpDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func IncConfigReload(err error) { configReloads.WithLabelValues(resultLabel(err)).Inc() }
func IncConfigValidationError() { configValidationErrors.Inc() }

// IncHTTPRequest counts a served request. route is the router pattern, not
// the raw path, to keep label cardinality bounded.
func IncHTTPRequest(route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
