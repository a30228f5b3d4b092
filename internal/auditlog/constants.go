package auditlog

// Log messages
const (
	LogMsgAuditAppended     = "Audit entry appended"
	LogMsgAuditAppendFailed = "Failed to append audit entry"
	LogMsgAuditQueryFailed  = "Failed to query audit log"
)

// Log field keys
const (
	LogFieldSequence    = "sequence"
	LogFieldGame        = "game"
	LogFieldOperator    = "operator"
	LogFieldParticipant = "participant_id"
	LogFieldAction      = "action"
	LogFieldError       = "error"
)
