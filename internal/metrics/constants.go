package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameDuelsChallenged   = "duels_challenged_total"
	MetricNameDuelsCompleted    = "duels_completed_total"
	MetricNameDuelsExpired      = "duels_expired_total"
	MetricNameDuelsActive       = "duels_active"
	MetricNameJudgmentsRecorded = "judgments_recorded_total"
	MetricNameDecksShared       = "decks_shared_total"
	MetricNameXPAwarded         = "xp_awarded_total"
	MetricNameStreamClients     = "stream_clients_connected"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextDuelsChallenged   = "Total number of duel challenges created"
	HelpTextDuelsCompleted    = "Total number of duels completed"
	HelpTextDuelsExpired      = "Total number of pending duels expired"
	HelpTextDuelsActive       = "Current number of active duels"
	HelpTextJudgmentsRecorded = "Total number of referee judgments recorded"
	HelpTextDecksShared       = "Total number of flashcard decks shared"
	HelpTextXPAwarded         = "Total XP awarded to users"
	HelpTextStreamClients     = "Current number of connected event stream clients"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelJudgment = "judgment"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)
