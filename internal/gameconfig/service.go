package gameconfig

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/metrics"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

// Service owns the game definitions and gift thresholds.
//
// Readers get an immutable snapshot; a reader never sees a half-applied
// change. Every successful mutation bumps the snapshot version.
type Service interface {
	// Snapshot returns the current configuration. Callers must not mutate it.
	Snapshot() *domain.GameConfig
	GetGame(number int) (domain.GameDefinition, error)
	ListGames() []domain.GameDefinition
	ListActiveGames() []domain.GameDefinition

	AddGame(ctx context.Context, def domain.GameDefinition) (domain.GameDefinition, error)
	UpdateGame(ctx context.Context, number int, def domain.GameDefinition) (domain.GameDefinition, error)
	RemoveGame(ctx context.Context, number int) error
	ToggleGame(ctx context.Context, number int) (domain.GameDefinition, error)
	SetThresholds(ctx context.Context, goldMin, silverMin int) (domain.GiftThresholds, error)
}

// Option configures the service.
type Option func(*service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithSeed replaces the built-in defaults stored when the store is empty.
func WithSeed(seed *domain.GameConfig) Option {
	return func(s *service) { s.seed = seed }
}

// WithPersistTimeout bounds each configuration write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *service) { s.persistTimeout = d }
}

type service struct {
	repo           repository.GameConfig
	current        atomic.Pointer[domain.GameConfig]
	writeMu        sync.Mutex // serializes mutations
	now            func() time.Time
	persistTimeout time.Duration
	seed           *domain.GameConfig
}

// NewService loads the stored configuration, seeding the defaults when the
// store is empty.
func NewService(ctx context.Context, repo repository.GameConfig, opts ...Option) (Service, error) {
	s := &service{
		repo:           repo,
		now:            time.Now,
		persistTimeout: DefaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cfg, err := s.repo.LoadGameConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load game configuration: %w", repository.PersistenceError(err))
	}
	if cfg != nil {
		s.current.Store(cfg)
		log.Info(LogMsgConfigLoaded, "version", cfg.Version, "games", len(cfg.Games))
		return nil
	}

	seed := s.seed
	if seed == nil {
		seed = domain.DefaultGameConfig(s.now())
	}
	err = s.repo.SaveGameConfig(ctx, *seed, 0)
	if errors.Is(err, domain.ErrVersionConflict) {
		// Another instance seeded first.
		return s.load(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to seed game configuration: %w", repository.PersistenceError(err))
	}

	s.current.Store(seed)
	metrics.ConfigMutations.WithLabelValues(OpSeed).Inc()
	log.Info(LogMsgSeededDefaults, "version", seed.Version, "games", len(seed.Games))
	return nil
}

func (s *service) Snapshot() *domain.GameConfig {
	return s.current.Load()
}

func (s *service) GetGame(number int) (domain.GameDefinition, error) {
	g, ok := s.Snapshot().Games[number]
	if !ok {
		return domain.GameDefinition{}, fmt.Errorf("%w: %d", domain.ErrGameNotFound, number)
	}
	return g, nil
}

func (s *service) ListGames() []domain.GameDefinition {
	return s.Snapshot().SortedGames()
}

func (s *service) ListActiveGames() []domain.GameDefinition {
	return slices.DeleteFunc(s.ListGames(), func(g domain.GameDefinition) bool { return !g.Active })
}

func (s *service) AddGame(ctx context.Context, def domain.GameDefinition) (domain.GameDefinition, error) {
	next, err := s.mutate(ctx, OpAddGame, func(cfg *domain.GameConfig) error {
		if def.Number == 0 {
			def.Number = nextGameNumber(cfg)
		}
		if _, exists := cfg.Games[def.Number]; exists {
			return fmt.Errorf("%w: %d", domain.ErrDuplicateGame, def.Number)
		}
		cfg.Games[def.Number] = def
		return nil
	})
	if err != nil {
		return domain.GameDefinition{}, err
	}
	return next.Games[def.Number], nil
}

func (s *service) UpdateGame(ctx context.Context, number int, def domain.GameDefinition) (domain.GameDefinition, error) {
	def.Number = number
	next, err := s.mutate(ctx, OpUpdateGame, func(cfg *domain.GameConfig) error {
		if _, exists := cfg.Games[number]; !exists {
			return fmt.Errorf("%w: %d", domain.ErrGameNotFound, number)
		}
		cfg.Games[number] = def
		return nil
	})
	if err != nil {
		return domain.GameDefinition{}, err
	}
	return next.Games[number], nil
}

// RemoveGame drops a definition. Stored values for the game are left in
// place; the ledger's orphan policy decides whether they still count.
func (s *service) RemoveGame(ctx context.Context, number int) error {
	_, err := s.mutate(ctx, OpRemoveGame, func(cfg *domain.GameConfig) error {
		if _, exists := cfg.Games[number]; !exists {
			return fmt.Errorf("%w: %d", domain.ErrGameNotFound, number)
		}
		delete(cfg.Games, number)
		return nil
	})
	return err
}

func (s *service) ToggleGame(ctx context.Context, number int) (domain.GameDefinition, error) {
	next, err := s.mutate(ctx, OpToggleGame, func(cfg *domain.GameConfig) error {
		g, exists := cfg.Games[number]
		if !exists {
			return fmt.Errorf("%w: %d", domain.ErrGameNotFound, number)
		}
		g.Active = !g.Active
		cfg.Games[number] = g
		return nil
	})
	if err != nil {
		return domain.GameDefinition{}, err
	}
	return next.Games[number], nil
}

func (s *service) SetThresholds(ctx context.Context, goldMin, silverMin int) (domain.GiftThresholds, error) {
	next, err := s.mutate(ctx, OpSetThresholds, func(cfg *domain.GameConfig) error {
		cfg.Thresholds = domain.GiftThresholds{GoldMin: goldMin, SilverMin: silverMin}
		return nil
	})
	if err != nil {
		return domain.GiftThresholds{}, err
	}
	return next.Thresholds, nil
}

// mutate applies fn to a copy of the current snapshot, validates the result,
// persists it and only then publishes it.
func (s *service) mutate(ctx context.Context, op string, fn func(cfg *domain.GameConfig) error) (*domain.GameConfig, error) {
	log := logger.FromContext(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.current.Load()
	next := current.Clone()
	if err := fn(next); err != nil {
		log.Warn(LogMsgConfigRejected, "operation", op, "error", err)
		return nil, err
	}
	if err := next.Validate(); err != nil {
		log.Warn(LogMsgConfigRejected, "operation", op, "error", err)
		return nil, err
	}
	next.Version = current.Version + 1
	next.LastUpdated = s.now()

	pctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.SaveGameConfig(pctx, *next, current.Version)
	metrics.PersistenceDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error(LogMsgConfigSaveError, "operation", op, "error", err)
		if errors.Is(err, domain.ErrVersionConflict) {
			s.reloadLocked(ctx)
		}
		return nil, repository.PersistenceError(err)
	}

	s.current.Store(next)
	metrics.ConfigMutations.WithLabelValues(op).Inc()
	log.Info(LogMsgConfigChanged, "operation", op, "version", next.Version)
	return next, nil
}

// reloadLocked refreshes the snapshot after the store moved underneath us.
// writeMu must be held.
func (s *service) reloadLocked(ctx context.Context) {
	cfg, err := s.repo.LoadGameConfig(ctx)
	if err != nil || cfg == nil {
		return
	}
	s.current.Store(cfg)
	logger.FromContext(ctx).Warn(LogMsgConfigReloaded, "version", cfg.Version)
}

func nextGameNumber(cfg *domain.GameConfig) int {
	if len(cfg.Games) == 0 {
		return 1
	}
	return slices.Max(slices.Collect(maps.Keys(cfg.Games))) + 1
}
