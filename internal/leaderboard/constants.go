package leaderboard

// DefaultCacheSize is how many computed boards are kept.
const DefaultCacheSize = 64

// Log messages
const (
	LogMsgTierMetricsStarting  = "Refreshing tier metrics"
	LogMsgTierMetricsFailed    = "Tier metrics refresh failed"
	LogMsgTierMetricsCompleted = "Tier metrics refreshed"
)
