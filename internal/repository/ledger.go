package repository

import (
	"context"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// Ledger stores participants and their score records.
type Ledger interface {
	// CreateParticipant returns domain.ErrDuplicateParticipant when the id exists.
	CreateParticipant(ctx context.Context, p domain.Participant) error
	GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error)
	// ListParticipants returns every participant ordered by id.
	ListParticipants(ctx context.Context) ([]domain.Participant, error)

	// GetScoreRecord returns nil when the participant has no record.
	GetScoreRecord(ctx context.Context, participantID string) (*domain.ScoreRecord, error)
	// ListScoreRecords returns every record ordered by participant id.
	ListScoreRecords(ctx context.Context) ([]domain.ScoreRecord, error)

	BeginTx(ctx context.Context) (LedgerTx, error)
}
