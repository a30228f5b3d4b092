package repository

import (
	"context"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// AuditLog is the standalone audit store. Entries are never updated or deleted.
type AuditLog interface {
	AuditWriter

	// QueryAudit returns entries matching filter, newest first.
	QueryAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}
