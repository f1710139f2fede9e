package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomgate_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomgate_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Room metrics
	MessagesAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomgate_messages_added_total",
			Help: "Total messages added to rooms",
		},
		[]string{"encrypted"},
	)

	UnlockAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomgate_unlock_attempts_total",
			Help: "Password prompt submissions by outcome",
		},
		[]string{"result"}, // "unlocked" or "locked"
	)

	PasswordsSet = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomgate_passwords_set_total",
			Help: "Total room passwords set",
		},
	)

	SessionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roomgate_sessions_open",
			Help: "Viewing sessions currently open",
		},
	)
)

// Recorder forwards hub counters to the package collectors.
type Recorder struct{}

// NewRecorder returns a Recorder backed by the default registry.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// MessageAdded counts a stored message, labelled by its encrypted flag.
func (*Recorder) MessageAdded(encrypted bool) {
	MessagesAdded.WithLabelValues(strconv.FormatBool(encrypted)).Inc()
}

// UnlockAttempt counts a password prompt submission by outcome.
func (*Recorder) UnlockAttempt(unlocked bool) {
	result := "locked"
	if unlocked {
		result = "unlocked"
	}
	UnlockAttempts.WithLabelValues(result).Inc()
}

// PasswordSet counts a room password change.
func (*Recorder) PasswordSet() {
	PasswordsSet.Inc()
}

// SessionsOpen sets the open sessions gauge to n.
func (*Recorder) SessionsOpen(n int) {
	SessionsOpen.Set(float64(n))
}
