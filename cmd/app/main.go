package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/ScoreLedger_Go/internal/bootstrap"
	"github.com/osse101/ScoreLedger_Go/internal/config"
)

// @title Score Ledger API
// @version 1.0
// @description Event scoring ledger: game configuration, operator assignments, score submission, audit trail and leaderboard.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatalf("score ledger: %v", err)
	}
}

func run() error {
	if err := config.ValidateEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	svc, err := bootstrap.InitializeServices(ctx, cfg, repos)
	if err != nil {
		repos.Close()
		return err
	}

	jobs := bootstrap.StartBackgroundJobs(svc.Leaderboard, cfg.MetricsRefreshInterval)
	srv := bootstrap.NewServer(cfg, repos, svc)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		slog.Error("Server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:       srv,
		Jobs:         jobs,
		Repositories: repos,
	})
	return err
}
