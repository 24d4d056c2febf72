// Package observability holds Prometheus collectors and OpenTelemetry setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by prefix and result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_cache_lookups_total",
		Help: "Cache lookups by key prefix and result",
	}, []string{"prefix", "result"})

	// StrikesIssued counts strikes by reason and severity.
	StrikesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_strikes_issued_total",
		Help: "Total number of strikes issued",
	}, []string{"reason", "severity"})

	// EscalationActions counts the outcome of strike escalation.
	EscalationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_escalation_actions_total",
		Help: "Escalation decisions by action",
	}, []string{"action"})

	// BansLifted counts bans cleared, labelled by what cleared them
	// (expired_on_read, reconcile, admin).
	BansLifted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_bans_lifted_total",
		Help: "Total number of bans lifted",
	}, []string{"source"})

	// ContentScreenings counts moderation screenings by verdict.
	ContentScreenings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_content_screenings_total",
		Help: "Content screening verdicts",
	}, []string{"action"})

	// ProgressUpdates counts library progress updates by outcome (updated, noop).
	ProgressUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_progress_updates_total",
		Help: "Library progress updates by outcome",
	}, []string{"outcome"})

	// ActivityLogFailures counts activity log writes that failed after a commit.
	ActivityLogFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkshelf_activity_log_failures_total",
		Help: "Activity log entries that could not be written",
	})

	// WebSocketConnectionsTotal is the gauge of active notification sockets.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inkshelf_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkshelf_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// DBQueryDuration observes SQL statement latency by outcome.
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkshelf_db_query_duration_seconds",
		Help:    "SQL statement duration",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"outcome"})
)
