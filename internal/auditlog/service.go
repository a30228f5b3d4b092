package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/metrics"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

// Service is the append-only record of score changes.
type Service interface {
	// AppendWithin appends entry through w, which is normally the ledger's
	// open transaction. The entry is visible only if that transaction commits.
	// The returned entry carries the stored Sequence and Timestamp.
	AppendWithin(ctx context.Context, w repository.AuditWriter, entry domain.AuditEntry) (domain.AuditEntry, error)
	// Append appends entry in its own write.
	Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)

	// Query returns matching entries, newest first.
	Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
	ByGame(ctx context.Context, gameNumber, limit int) ([]domain.AuditEntry, error)
	ByOperator(ctx context.Context, identity string, limit int) ([]domain.AuditEntry, error)
}

type service struct {
	repo repository.AuditLog
	now  func() time.Time
}

// NewService creates a new audit log service.
func NewService(repo repository.AuditLog) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) AppendWithin(ctx context.Context, w repository.AuditWriter, entry domain.AuditEntry) (domain.AuditEntry, error) {
	log := logger.FromContext(ctx)

	if err := validateEntry(entry); err != nil {
		return domain.AuditEntry{}, err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	stored, err := w.AppendAudit(ctx, entry)
	if err != nil {
		log.Error(LogMsgAuditAppendFailed,
			LogFieldGame, entry.GameNumber,
			LogFieldParticipant, entry.ParticipantID,
			LogFieldError, err)
		return domain.AuditEntry{}, repository.PersistenceError(err)
	}

	log.Debug(LogMsgAuditAppended,
		LogFieldSequence, stored.Sequence,
		LogFieldGame, stored.GameNumber,
		LogFieldOperator, stored.OperatorIdentity,
		LogFieldAction, stored.Action)
	return stored, nil
}

func (s *service) Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	stored, err := s.AppendWithin(ctx, s.repo, entry)
	if err == nil {
		metrics.AuditEntries.WithLabelValues(string(entry.Action)).Inc()
	}
	return stored, err
}

func (s *service) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	filter.Limit = clampLimit(filter.Limit)

	entries, err := s.repo.QueryAudit(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgAuditQueryFailed, LogFieldError, err)
		return nil, repository.PersistenceError(err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

func (s *service) ByGame(ctx context.Context, gameNumber, limit int) ([]domain.AuditEntry, error) {
	return s.Query(ctx, domain.AuditFilter{GameNumber: &gameNumber, Limit: limit})
}

func (s *service) ByOperator(ctx context.Context, identity string, limit int) ([]domain.AuditEntry, error) {
	return s.Query(ctx, domain.AuditFilter{OperatorIdentity: &identity, Limit: limit})
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return domain.DefaultAuditLimit
	case limit > domain.MaxAuditLimit:
		return domain.MaxAuditLimit
	default:
		return limit
	}
}

func validateEntry(e domain.AuditEntry) error {
	switch {
	case !e.Action.Valid():
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidAuditEntry, e.Action)
	case e.ParticipantID == "":
		return fmt.Errorf("%w: participant id is required", domain.ErrInvalidAuditEntry)
	case e.OperatorIdentity == "":
		return fmt.Errorf("%w: operator identity is required", domain.ErrInvalidAuditEntry)
	case e.GameNumber <= 0:
		return fmt.Errorf("%w: game number must be positive", domain.ErrInvalidAuditEntry)
	}
	return nil
}
