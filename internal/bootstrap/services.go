package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/auditlog"
	"github.com/osse101/ScoreLedger_Go/internal/auth"
	"github.com/osse101/ScoreLedger_Go/internal/config"
	"github.com/osse101/ScoreLedger_Go/internal/gameconfig"
	"github.com/osse101/ScoreLedger_Go/internal/leaderboard"
	"github.com/osse101/ScoreLedger_Go/internal/ledger"
	"github.com/osse101/ScoreLedger_Go/internal/operator"
	"github.com/osse101/ScoreLedger_Go/internal/server"
	"github.com/osse101/ScoreLedger_Go/internal/validation"
)

// Services holds the application services in dependency order.
type Services struct {
	Tokens      *auth.Tokens
	Games       gameconfig.Service
	Operators   operator.Service
	Audit       auditlog.Service
	Ledger      ledger.Service
	Leaderboard leaderboard.Service
}

// InitializeServices wires the services on top of repos. The game
// configuration is loaded (or seeded) here, so this touches storage.
func InitializeServices(ctx context.Context, cfg *config.Config, repos *Repositories) (*Services, error) {
	tokens, err := auth.NewTokens(cfg.JWTSigningKey, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedTokens, err)
	}

	gameOpts := []gameconfig.Option{gameconfig.WithPersistTimeout(cfg.PersistTimeout)}
	if cfg.GameSeedFile != "" {
		seed, err := gameconfig.LoadSeedFile(validation.NewSchemaValidator(), cfg.GameSeedFile, time.Now())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedGameSeed, err)
		}
		gameOpts = append(gameOpts, gameconfig.WithSeed(seed))
	}

	games, err := gameconfig.NewService(ctx, repos.GameConfig, gameOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedGameConfig, err)
	}

	ops := operator.NewService(repos.Operator, games, operator.WithHashCost(cfg.BcryptCost))
	audit := auditlog.NewService(repos.AuditLog)
	led := ledger.NewService(repos.Ledger, games, ops, audit,
		ledger.WithPersistTimeout(cfg.PersistTimeout),
		ledger.WithMaxRetries(cfg.SubmitMaxRetries),
		ledger.WithOrphanPolicy(cfg.OrphanedScoresPolicy),
	)

	board, err := leaderboard.NewService(led, games, cfg.LeaderboardCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLeaderboard, err)
	}

	slog.Info(LogMsgServicesReady,
		"config_version", games.Snapshot().Version,
		"games", len(games.Snapshot().Games))

	return &Services{
		Tokens:      tokens,
		Games:       games,
		Operators:   ops,
		Audit:       audit,
		Ledger:      led,
		Leaderboard: board,
	}, nil
}

// NewServer builds the HTTP server for svc.
func NewServer(cfg *config.Config, repos *Repositories, svc *Services) *server.Server {
	return server.NewServer(
		server.Options{
			Port:           cfg.Port,
			APIKey:         cfg.APIKey,
			TrustedProxies: cfg.TrustedProxies,
		},
		server.Services{
			Storage:     repos.Storage,
			Tokens:      svc.Tokens,
			Games:       svc.Games,
			Operators:   svc.Operators,
			Audit:       svc.Audit,
			Ledger:      svc.Ledger,
			Leaderboard: svc.Leaderboard,
		},
	)
}
