package dev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sessionMetrics are the dev server's live-session metrics.
type sessionMetrics struct {
	activeSessions prometheus.Gauge
	eventsTotal    *prometheus.CounterVec
	eventDuration  prometheus.Histogram
	patchesSent    prometheus.Counter
	mutationsSent  prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

func newSessionMetrics(reg prometheus.Registerer) *sessionMetrics {
	factory := promauto.With(reg)
	return &sessionMetrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "nano",
			Subsystem: "dev",
			Name:      "active_sessions",
			Help:      "Number of live dev sessions",
		}),
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nano",
			Subsystem: "dev",
			Name:      "events_total",
			Help:      "Browser events received by outcome",
		}, []string{"status"}),
		eventDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nano",
			Subsystem: "dev",
			Name:      "event_duration_seconds",
			Help:      "Time to dispatch a browser event on the session document",
			Buckets:   prometheus.DefBuckets,
		}),
		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nano",
			Subsystem: "dev",
			Name:      "patches_sent_total",
			Help:      "Patch messages sent to browsers",
		}),
		mutationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nano",
			Subsystem: "dev",
			Name:      "mutations_sent_total",
			Help:      "DOM mutation records sent to browsers",
		}),
		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nano",
			Subsystem: "dev",
			Name:      "websocket_errors_total",
			Help:      "WebSocket errors by type",
		}, []string{"type"}),
	}
}
