package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

const operatorColumns = `game_number, identity, name, credential_hash, created_at`

// OperatorRepository stores operator assignments.
type OperatorRepository struct {
	db *pgxpool.Pool
}

// NewOperatorRepository creates a new PostgreSQL operator repository
func NewOperatorRepository(db *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) InsertOperator(ctx context.Context, a domain.OperatorAssignment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO operator_assignments (`+operatorColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		a.GameNumber, a.Identity, a.Name, a.CredentialHash, a.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: game %d or identity %s", domain.ErrAlreadyAssigned, a.GameNumber, a.Identity)
	}
	if err != nil {
		return fmt.Errorf("failed to insert operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) DeleteOperator(ctx context.Context, gameNumber int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM operator_assignments WHERE game_number = $1`, gameNumber)
	if err != nil {
		return fmt.Errorf("failed to delete operator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: game %d", domain.ErrOperatorNotFound, gameNumber)
	}
	return nil
}

func (r *OperatorRepository) GetOperatorByGame(ctx context.Context, gameNumber int) (*domain.OperatorAssignment, error) {
	return r.getOne(ctx, `SELECT `+operatorColumns+` FROM operator_assignments WHERE game_number = $1`, gameNumber)
}

func (r *OperatorRepository) GetOperatorByIdentity(ctx context.Context, identity string) (*domain.OperatorAssignment, error) {
	return r.getOne(ctx, `SELECT `+operatorColumns+` FROM operator_assignments WHERE identity = $1`, identity)
}

func (r *OperatorRepository) ListOperators(ctx context.Context) ([]domain.OperatorAssignment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+operatorColumns+` FROM operator_assignments ORDER BY game_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	defer rows.Close()

	var out []domain.OperatorAssignment
	for rows.Next() {
		a, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *OperatorRepository) UpdateOperatorCredential(ctx context.Context, gameNumber int, credentialHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE operator_assignments SET credential_hash = $2 WHERE game_number = $1`,
		gameNumber, credentialHash)
	if err != nil {
		return fmt.Errorf("failed to update operator credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: game %d", domain.ErrOperatorNotFound, gameNumber)
	}
	return nil
}

func (r *OperatorRepository) getOne(ctx context.Context, query string, arg any) (*domain.OperatorAssignment, error) {
	a, err := scanOperator(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return a, nil
}

func scanOperator(row pgx.Row) (*domain.OperatorAssignment, error) {
	var a domain.OperatorAssignment
	if err := row.Scan(&a.GameNumber, &a.Identity, &a.Name, &a.CredentialHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
