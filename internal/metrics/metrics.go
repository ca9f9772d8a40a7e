// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Signup outcomes recorded in SignupsTotal.
const (
	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultError     = "error"
)

// Delivery outcomes recorded in NotificationsTotal and SheetExportsTotal.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

var (
	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		},
		[]string{"result"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "notifications_total",
			Help:      "Best-effort signup notifications by sink and outcome.",
		},
		[]string{"sink", "result"},
	)

	SheetExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "sheet_exports_total",
			Help:      "Full sheet exports by outcome.",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "waitlist",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		SignupsTotal,
		NotificationsTotal,
		SheetExportsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
