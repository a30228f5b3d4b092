package repository

import (
	"context"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// Tx is the common transaction surface.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// LedgerTx groups a score write and its audit entry so both commit or neither does.
type LedgerTx interface {
	Tx

	// GetScoreRecordForUpdate loads and locks the participant's record.
	// Returns nil when the participant has no record yet.
	GetScoreRecordForUpdate(ctx context.Context, participantID string) (*domain.ScoreRecord, error)

	// SaveScoreRecord writes rec when the stored version equals expectedVersion.
	// An expectedVersion of 0 means the record must not exist yet.
	// Returns domain.ErrVersionConflict otherwise.
	SaveScoreRecord(ctx context.Context, rec domain.ScoreRecord, expectedVersion int64) error

	DeleteScoreRecord(ctx context.Context, participantID string) error

	// DeleteParticipant removes the participant row. Returns
	// domain.ErrParticipantNotFound when absent.
	DeleteParticipant(ctx context.Context, participantID string) error

	AuditWriter
}

// AuditWriter appends one audit entry and returns it as stored.
//
// Sequence and Timestamp are assigned while the sequence is held: the stored
// Timestamp is entry.Timestamp clamped to be no earlier than the previous
// entry's, so timestamps never decrease as sequence numbers increase.
type AuditWriter interface {
	AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)
}
