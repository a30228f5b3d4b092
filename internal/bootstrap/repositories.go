package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/ScoreLedger_Go/internal/config"
	"github.com/osse101/ScoreLedger_Go/internal/database"
	"github.com/osse101/ScoreLedger_Go/internal/database/memory"
	"github.com/osse101/ScoreLedger_Go/internal/database/postgres"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

// Repositories holds the storage implementations used by the application.
type Repositories struct {
	Ledger     repository.Ledger
	GameConfig repository.GameConfig
	Operator   repository.Operator
	AuditLog   repository.AuditLog

	// Storage answers readiness probes.
	Storage database.Pool
}

// Close releases the underlying storage.
func (r *Repositories) Close() {
	slog.Info(LogMsgClosingStorage)
	r.Storage.Close()
}

// InitializeRepositories opens the storage selected by STORAGE_DRIVER. The
// postgres driver connects, pings and migrates before returning.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore()
		slog.Info(LogMsgStorageReady, "driver", cfg.StorageDriver)
		return &Repositories{
			Ledger:     store,
			GameConfig: store,
			Operator:   store,
			AuditLog:   store,
			Storage:    memoryPool{store},
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, DBMaxConnIdleTime, DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnect, err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}

	slog.Info(LogMsgStorageReady, "driver", cfg.StorageDriver, "host", cfg.DBHost, "db", cfg.DBName)
	return &Repositories{
		Ledger:     postgres.NewLedgerRepository(pool),
		GameConfig: postgres.NewGameConfigRepository(pool),
		Operator:   postgres.NewOperatorRepository(pool),
		AuditLog:   postgres.NewAuditLogRepository(pool),
		Storage:    pool,
	}, nil
}

// memoryPool adapts the memory store to database.Pool.
type memoryPool struct {
	*memory.Store
}

func (memoryPool) Close() {}
