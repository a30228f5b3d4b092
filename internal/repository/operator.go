package repository

import (
	"context"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// Operator stores game operator assignments.
type Operator interface {
	// InsertOperator returns domain.ErrAlreadyAssigned when the game or the
	// identity already holds an assignment.
	InsertOperator(ctx context.Context, a domain.OperatorAssignment) error
	// DeleteOperator returns domain.ErrOperatorNotFound when the game has no operator.
	DeleteOperator(ctx context.Context, gameNumber int) error
	// GetOperatorByGame and GetOperatorByIdentity return nil when absent.
	GetOperatorByGame(ctx context.Context, gameNumber int) (*domain.OperatorAssignment, error)
	GetOperatorByIdentity(ctx context.Context, identity string) (*domain.OperatorAssignment, error)
	// ListOperators returns assignments ordered by game number.
	ListOperators(ctx context.Context) ([]domain.OperatorAssignment, error)
	UpdateOperatorCredential(ctx context.Context, gameNumber int, credentialHash string) error
}
