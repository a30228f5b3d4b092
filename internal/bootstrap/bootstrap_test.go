package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/osse101/ScoreLedger_Go/internal/config"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Port:                   8080,
		StorageDriver:          config.StorageDriverMemory,
		APIKey:                 "key",
		JWTSigningKey:          "0123456789abcdef0123456789abcdef",
		JWTTTL:                 time.Hour,
		BcryptCost:             bcrypt.MinCost,
		PersistTimeout:         time.Second,
		SubmitMaxRetries:       2,
		OrphanedScoresPolicy:   domain.OrphanExclude,
		LeaderboardCacheSize:   4,
		MetricsRefreshInterval: time.Hour,
	}
}

func TestInitialize_MemoryDriver(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()

	repos, err := InitializeRepositories(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, repos.Storage.Ping(ctx))

	svc, err := InitializeServices(ctx, cfg, repos)
	require.NoError(t, err)
	assert.Len(t, svc.Games.ListGames(), domain.DefaultGameCount)

	_, err = svc.Ledger.RegisterParticipant(ctx, domain.Participant{ID: "P1", Name: "Ana"})
	require.NoError(t, err)
	admin := domain.Caller{Identity: "admin", IsAdmin: true}
	_, err = svc.Ledger.SubmitScore(ctx, admin, "P1", 1, 9)
	require.NoError(t, err)

	top, err := svc.Leaderboard.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 9, top[0].Total)

	jobs := StartBackgroundJobs(svc.Leaderboard, time.Hour)
	srv := NewServer(cfg, repos, svc)
	GracefulShutdown(ctx, ShutdownComponents{Server: srv, Jobs: jobs, Repositories: repos})
}

func TestInitializeServices_RejectsShortSigningKey(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.JWTSigningKey = "short"

	repos, err := InitializeRepositories(ctx, cfg)
	require.NoError(t, err)
	_, err = InitializeServices(ctx, cfg, repos)
	assert.ErrorContains(t, err, ErrMsgFailedTokens)
}

func TestCleanupLogs(t *testing.T) {
	dir := t.TempDir()
	for i := range 12 {
		stamp := time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC).Format(LogFileTimestampFormat)
		name := filepath.Join(dir, fmt.Sprintf(LogFileNamePattern, stamp))
		require.NoError(t, os.WriteFile(name, nil, LogFilePermission))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, LogFilePermission))

	cleanupLogs(dir, 9)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var logs []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == LogFileExtension {
			logs = append(logs, e.Name())
		}
	}
	require.Len(t, logs, 9)
	assert.Equal(t, "session_2026-01-01_00-03-00.log", logs[0], "oldest three removed")
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestInitializeServices_GameSeedFile(t *testing.T) {
	ctx := context.Background()
	seed := `{
		"games": [
			{"number": 1, "name": "Ring Toss", "kind": "points", "max_points": 20},
			{"number": 2, "name": "Duck Race", "kind": "win_lose", "win_points": 10}
		],
		"thresholds": {"gold_min": 25, "silver_min": 15}
	}`
	path := filepath.Join(t.TempDir(), "games.json")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	cfg := memoryConfig()
	cfg.GameSeedFile = path
	repos, err := InitializeRepositories(ctx, cfg)
	require.NoError(t, err)

	svc, err := InitializeServices(ctx, cfg, repos)
	require.NoError(t, err)
	assert.Len(t, svc.Games.ListGames(), 2)
	assert.Equal(t, domain.GiftThresholds{GoldMin: 25, SilverMin: 15}, svc.Games.Snapshot().Thresholds)
}

func TestInitializeServices_InvalidGameSeedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"games": []}`), 0o600))

	cfg := memoryConfig()
	cfg.GameSeedFile = path
	repos, err := InitializeRepositories(ctx, cfg)
	require.NoError(t, err)

	_, err = InitializeServices(ctx, cfg, repos)
	assert.ErrorContains(t, err, ErrMsgFailedGameSeed)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
