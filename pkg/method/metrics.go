// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package method

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tempor/tempor/pkg/errutil"
)

// Status constants for operation metrics.
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusInvalidState = "invalid_state"
	StatusUnsupported  = "unsupported"
)

// Operations is the counter for lifecycle operations.
// Use RegisterMetrics to register this with a Prometheus registry.
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tempor_method_operations_total",
		Help: "Total number of method lifecycle operations",
	},
	[]string{"plugin", "operation", "status"},
)

// OperationDuration is the histogram for lifecycle operation duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var OperationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tempor_method_operation_duration_seconds",
		Help:    "Method lifecycle operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"plugin", "operation"},
)

// RegisterMetrics registers method package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Operations)
	reg.MustRegister(OperationDuration)
}

// RecordOperation increments the operation counter.
func RecordOperation(plugin, op, status string) {
	Operations.WithLabelValues(plugin, op, status).Inc()
}

// RecordOperationDuration records how long an operation took.
func RecordOperationDuration(plugin, op string, d time.Duration) {
	OperationDuration.WithLabelValues(plugin, op).Observe(d.Seconds())
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errutil.IsInvalidState(err):
		return StatusInvalidState
	case errutil.IsUnsupported(err):
		return StatusUnsupported
	default:
		return StatusError
	}
}
