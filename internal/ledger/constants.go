package ledger

import "time"

// Defaults used when no option overrides them.
const (
	DefaultPersistTimeout = 3 * time.Second
	DefaultMaxRetries     = 3
)

// Persistence operation labels
const (
	OpSubmitScore       = "submit_score"
	OpDeleteParticipant = "delete_participant"
	OpClearScores       = "clear_scores"
)

// Log messages
const (
	LogMsgScoreSubmitted      = "Score submitted"
	LogMsgScoreRejected       = "Score submission rejected"
	LogMsgScorePersistFailed  = "Failed to persist score submission"
	LogMsgVersionConflict     = "Score record version conflict, retrying"
	LogMsgParticipantAdded    = "Participant registered"
	LogMsgParticipantDeleted  = "Participant deleted"
	LogMsgScoresCleared       = "All scores cleared"
	LogMsgBulkDeleteItemError = "Bulk participant delete failed for id"
)

// Log field keys
const (
	LogFieldParticipant = "participant_id"
	LogFieldGame        = "game"
	LogFieldOperator    = "operator"
	LogFieldOldValue    = "old_value"
	LogFieldNewValue    = "new_value"
	LogFieldAction      = "action"
	LogFieldTotal       = "total"
	LogFieldTier        = "tier"
	LogFieldAttempt     = "attempt"
	LogFieldCount       = "count"
	LogFieldError       = "error"
)
