package domain

import "time"

// AuditAction classifies a score change.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditClear  AuditAction = "clear"
)

// Valid reports whether a is a known action.
func (a AuditAction) Valid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditClear:
		return true
	}
	return false
}

// Audit query limits
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 1000
)

// AuditEntry is an immutable record of one score change.
type AuditEntry struct {
	Sequence         int64       `json:"sequence"`
	Timestamp        time.Time   `json:"timestamp"`
	GameNumber       int         `json:"game_number"`
	OperatorIdentity string      `json:"operator"`
	ParticipantID    string      `json:"participant_id"`
	OldValue         int         `json:"old_value"`
	NewValue         int         `json:"new_value"`
	Action           AuditAction `json:"action"`
}

// AuditFilter narrows an audit query. Nil fields match everything.
type AuditFilter struct {
	GameNumber       *int
	OperatorIdentity *string
	ParticipantID    *string
	Since            *time.Time
	Limit            int
}

// ResolveAuditAction picks the action for a submission. Clear wins when a
// nonzero value is zeroed; otherwise create marks the participant's first record.
func ResolveAuditAction(hadRecord bool, oldValue, newValue int) AuditAction {
	switch {
	case newValue == 0 && oldValue != 0:
		return AuditClear
	case !hadRecord:
		return AuditCreate
	default:
		return AuditUpdate
	}
}
