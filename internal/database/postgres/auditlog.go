package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// AuditLogRepository is the append-only audit store.
type AuditLogRepository struct {
	db *pgxpool.Pool
}

// NewAuditLogRepository creates a new PostgreSQL audit log repository
func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// AppendAudit writes one entry in its own transaction.
func (r *AuditLogRepository) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	stored, err := appendAudit(ctx, tx, entry)
	if err != nil {
		return domain.AuditEntry{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.AuditEntry{}, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return stored, nil
}

// QueryAudit retrieves entries matching filter, newest first.
func (r *AuditLogRepository) QueryAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT sequence, recorded_at, game_number, operator_identity, participant_id, old_value, new_value, action
		FROM audit_log
		WHERE 1=1`)

	args := []any{}
	argNum := 1

	if filter.GameNumber != nil {
		fmt.Fprintf(&queryBuilder, " AND game_number = $%d", argNum)
		args = append(args, *filter.GameNumber)
		argNum++
	}

	if filter.OperatorIdentity != nil {
		fmt.Fprintf(&queryBuilder, " AND operator_identity = $%d", argNum)
		args = append(args, *filter.OperatorIdentity)
		argNum++
	}

	if filter.ParticipantID != nil {
		fmt.Fprintf(&queryBuilder, " AND participant_id = $%d", argNum)
		args = append(args, *filter.ParticipantID)
		argNum++
	}

	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND recorded_at >= $%d", argNum)
		args = append(args, filter.Since.UTC())
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY sequence DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// appendAudit allocates the next sequence number and inserts the entry on q.
// The counter row stays locked until q's transaction ends, which keeps the
// sequence gapless when the transaction rolls back. The timestamp is taken
// on the same row, clamped to the previous entry's, so recorded_at never
// decreases as sequence increases.
func appendAudit(ctx context.Context, q querier, entry domain.AuditEntry) (domain.AuditEntry, error) {
	stamp := entry.Timestamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	err := q.QueryRow(ctx, `
		UPDATE audit_sequence
		SET last_value = last_value + 1,
		    last_recorded_at = GREATEST(last_recorded_at, $1)
		WHERE id = 1
		RETURNING last_value, last_recorded_at`, stamp.UTC()).Scan(&entry.Sequence, &entry.Timestamp)
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("%s: %w", ErrMsgFailedToAllocateSequence, err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_log (sequence, recorded_at, game_number, operator_identity, participant_id, old_value, new_value, action)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.Sequence, entry.Timestamp, entry.GameNumber, entry.OperatorIdentity,
		entry.ParticipantID, entry.OldValue, entry.NewValue, string(entry.Action))
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return entry, nil
}

func scanAuditEntries(rows pgx.Rows) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var action string
		err := rows.Scan(
			&e.Sequence,
			&e.Timestamp,
			&e.GameNumber,
			&e.OperatorIdentity,
			&e.ParticipantID,
			&e.OldValue,
			&e.NewValue,
			&action,
		)
		if err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
