package metrics

// ============================================================================
// Metric Names
// ============================================================================

const namespace = "scoreledger"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Ledger metric names
const (
	MetricNameScoresSubmitted     = "scores_submitted_total"
	MetricNameScoreRejections     = "score_rejections_total"
	MetricNameScoreConflicts      = "score_version_conflicts_total"
	MetricNamePersistenceDuration = "persistence_duration_seconds"
	MetricNameAuditEntries        = "audit_entries_total"
	MetricNameConfigMutations     = "config_mutations_total"
	MetricNameTierParticipants    = "tier_participants"
	MetricNameLeaderboardCache    = "leaderboard_cache_lookups_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal     = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration   = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight  = "Current number of HTTP requests being served"
	HelpTextScoresSubmitted       = "Accepted score submissions by game and audit action"
	HelpTextScoreRejections       = "Rejected score submissions by reason"
	HelpTextScoreConflicts        = "Optimistic version conflicts retried during submission"
	HelpTextPersistenceDuration   = "Latency of ledger persistence operations in seconds"
	HelpTextAuditEntries          = "Audit entries committed by action"
	HelpTextConfigMutations       = "Game configuration mutations by operation"
	HelpTextTierParticipants      = "Participants currently in each gift tier"
	HelpTextLeaderboardCache      = "Leaderboard cache lookups by result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelGame      = "game"
	LabelAction    = "action"
	LabelReason    = "reason"
	LabelOperation = "operation"
	LabelTier      = "tier"
	LabelResult    = "result"
)

// Label values
const (
	ResultHit  = "hit"
	ResultMiss = "miss"

	ReasonValidation   = "validation"
	ReasonUnauthorized = "unauthorized"
	ReasonNotFound     = "not_found"
	ReasonConflict     = "conflict"
	ReasonTimeout      = "timeout"
	ReasonPersistence  = "persistence"
	ReasonOther        = "other"

	UnmatchedRoute = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// PersistenceLatencyBuckets covers fast local commits up to the persistence timeout.
var PersistenceLatencyBuckets = []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 3, 5}
