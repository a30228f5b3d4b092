package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

const scoreRecordColumns = `participant_id, scores, version, created_at, last_updated`

// LedgerRepository stores participants and score records.
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateParticipant(ctx context.Context, p domain.Participant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO participants (participant_id, name, email, registered_at)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Email, p.RegisteredAt.UTC())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateParticipant, p.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error) {
	var p domain.Participant
	err := r.db.QueryRow(ctx, `
		SELECT participant_id, name, email, registered_at
		FROM participants WHERE participant_id = $1`, participantID).
		Scan(&p.ID, &p.Name, &p.Email, &p.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrParticipantNotFound, participantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

func (r *LedgerRepository) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT participant_id, name, email, registered_at
		FROM participants ORDER BY participant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *LedgerRepository) GetScoreRecord(ctx context.Context, participantID string) (*domain.ScoreRecord, error) {
	return getScoreRecord(ctx, r.db, participantID, false)
}

func (r *LedgerRepository) ListScoreRecords(ctx context.Context) ([]domain.ScoreRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+scoreRecordColumns+` FROM score_records ORDER BY participant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list score records: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreRecord
	for rows.Next() {
		rec, err := scanScoreRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &ledgerTx{tx: tx}, nil
}

type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) GetScoreRecordForUpdate(ctx context.Context, participantID string) (*domain.ScoreRecord, error) {
	return getScoreRecord(ctx, t.tx, participantID, true)
}

func (t *ledgerTx) SaveScoreRecord(ctx context.Context, rec domain.ScoreRecord, expectedVersion int64) error {
	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeScores, err)
	}

	var affected int64
	if expectedVersion == 0 {
		tag, err := t.tx.Exec(ctx, `
			INSERT INTO score_records (`+scoreRecordColumns+`)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (participant_id) DO NOTHING`,
			rec.ParticipantID, scores, rec.Version, rec.CreatedAt.UTC(), rec.LastUpdated.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert score record: %w", err)
		}
		affected = tag.RowsAffected()
	} else {
		tag, err := t.tx.Exec(ctx, `
			UPDATE score_records
			SET scores = $2, version = $3, last_updated = $4
			WHERE participant_id = $1 AND version = $5`,
			rec.ParticipantID, scores, rec.Version, rec.LastUpdated.UTC(), expectedVersion)
		if err != nil {
			return fmt.Errorf("failed to update score record: %w", err)
		}
		affected = tag.RowsAffected()
	}

	if affected == 0 {
		return fmt.Errorf("%w: participant %s expected version %d", domain.ErrVersionConflict, rec.ParticipantID, expectedVersion)
	}
	return nil
}

func (t *ledgerTx) DeleteScoreRecord(ctx context.Context, participantID string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM score_records WHERE participant_id = $1`, participantID); err != nil {
		return fmt.Errorf("failed to delete score record: %w", err)
	}
	return nil
}

func (t *ledgerTx) DeleteParticipant(ctx context.Context, participantID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM participants WHERE participant_id = $1`, participantID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrParticipantNotFound, participantID)
	}
	return nil
}

func (t *ledgerTx) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	return appendAudit(ctx, t.tx, entry)
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, closedTxErr(err))
	}
	return nil
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return closedTxErr(t.tx.Rollback(ctx))
}

func getScoreRecord(ctx context.Context, q querier, participantID string, forUpdate bool) (*domain.ScoreRecord, error) {
	query := `SELECT ` + scoreRecordColumns + ` FROM score_records WHERE participant_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rec, err := scanScoreRecord(q.QueryRow(ctx, query, participantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score record: %w", err)
	}
	return rec, nil
}

func scanScoreRecord(row pgx.Row) (*domain.ScoreRecord, error) {
	var rec domain.ScoreRecord
	var scores []byte
	if err := row.Scan(&rec.ParticipantID, &scores, &rec.Version, &rec.CreatedAt, &rec.LastUpdated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scores, &rec.Scores); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeScores, err)
	}
	if rec.Scores == nil {
		rec.Scores = make(map[int]int)
	}
	return &rec, nil
}
