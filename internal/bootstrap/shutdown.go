package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ScoreLedger_Go/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server       *server.Server
	Jobs         *BackgroundJobs
	Repositories *Repositories
}

// GracefulShutdown stops the components in dependency order: the HTTP
// server first so no new submissions start, then background jobs, then
// storage. Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Jobs != nil {
		slog.Info(LogMsgShuttingDownJobs)
		components.Jobs.Stop()
	}

	if components.Repositories != nil {
		components.Repositories.Close()
	}

	slog.Info(LogMsgServerStopped)
}
