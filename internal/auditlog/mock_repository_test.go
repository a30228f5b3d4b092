package auditlog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// MockRepository is a mock implementation of repository.AuditLog
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(domain.AuditEntry), args.Error(1)
}

func (m *MockRepository) QueryAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}
