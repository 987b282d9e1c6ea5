// Package metrics exposes Prometheus collectors for the application.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionsStarted counts successfully opened work sessions.
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "timeclock_work_sessions_started_total",
			Help: "Total number of work sessions opened",
		},
	)

	// SessionsEnded counts successfully closed work sessions.
	SessionsEnded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "timeclock_work_sessions_ended_total",
			Help: "Total number of work sessions closed",
		},
	)

	// SessionDuration observes the elapsed time of closed sessions.
	SessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timeclock_work_session_duration_seconds",
			Help:    "Elapsed duration of closed work sessions in seconds",
			Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800, 43200},
		},
	)

	// RequestsTotal counts HTTP requests by method and status.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeclock_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(SessionsStarted, SessionsEnded, SessionDuration, RequestsTotal)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
