package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	DuelsChallenged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelsChallenged,
			Help: HelpTextDuelsChallenged,
		},
	)

	DuelsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelsCompleted,
			Help: HelpTextDuelsCompleted,
		},
	)

	DuelsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelsExpired,
			Help: HelpTextDuelsExpired,
		},
	)

	DuelsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameDuelsActive,
			Help: HelpTextDuelsActive,
		},
	)

	JudgmentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJudgmentsRecorded,
			Help: HelpTextJudgmentsRecorded,
		},
		[]string{LabelJudgment},
	)

	DecksShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDecksShared,
			Help: HelpTextDecksShared,
		},
	)

	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPAwarded,
			Help: HelpTextXPAwarded,
		},
	)

	StreamClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStreamClients,
			Help: HelpTextStreamClients,
		},
	)
)
