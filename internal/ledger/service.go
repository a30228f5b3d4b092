package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/text/cases"

	"github.com/osse101/ScoreLedger_Go/internal/auditlog"
	"github.com/osse101/ScoreLedger_Go/internal/concurrency"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/metrics"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

// ConfigSource supplies the current game configuration.
type ConfigSource interface {
	Snapshot() *domain.GameConfig
}

// Authorizer decides whether a caller may score a game.
type Authorizer interface {
	Authorize(ctx context.Context, caller domain.Caller, gameNumber int) (bool, error)
}

// Service is the scoring ledger. It is the only writer of participants and
// score records, and the only place totals and tiers are computed.
type Service interface {
	// SubmitScore records raw for the participant's game and returns the
	// updated record. The score write and its audit entry commit together.
	SubmitScore(ctx context.Context, caller domain.Caller, participantID string, gameNumber, raw int) (*domain.ScoreRecord, error)
	GetScore(ctx context.Context, participantID string) (*domain.ScoreRecord, error)
	ListScores(ctx context.Context, filter ScoreFilter) ([]domain.ScoreRecord, error)
	GameScores(ctx context.Context, gameNumber int) ([]domain.GameScoreRow, error)
	// ClearAllScores removes every score record and returns how many were removed.
	ClearAllScores(ctx context.Context, caller domain.Caller) (int, error)

	RegisterParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error)
	GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error)
	ListParticipants(ctx context.Context, search string) ([]domain.Participant, error)
	DeleteParticipant(ctx context.Context, participantID string) error
	DeleteParticipants(ctx context.Context, participantIDs []string) []BulkDeleteResult

	// Standings returns a consistent read of everything needed for ranking.
	Standings(ctx context.Context) (*Standings, error)
	// Revision increases after every committed ledger write.
	Revision() uint64
}

// ScoreFilter narrows ListScores. Zero values match everything.
type ScoreFilter struct {
	Tier           domain.Tier
	ParticipantIDs []string
}

// BulkDeleteResult reports the outcome for one id in a bulk delete.
type BulkDeleteResult struct {
	ParticipantID string `json:"participant_id"`
	Deleted       bool   `json:"deleted"`
	Error         string `json:"error,omitempty"`
}

// Standings is the ranked view's input. Revision was read before the
// records, so the records are at least as new as the revision says.
type Standings struct {
	Revision      uint64
	ConfigVersion int64
	Thresholds    domain.GiftThresholds
	Participants  []domain.Participant
	Records       []domain.ScoreRecord
}

// Option configures the service.
type Option func(*service)

// WithPersistTimeout bounds lock waits and each persistence round trip.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *service) { s.persistTimeout = d }
}

// WithMaxRetries sets how often a version conflict is retried before it is
// returned to the caller.
func WithMaxRetries(n int) Option {
	return func(s *service) { s.maxRetries = n }
}

// WithOrphanPolicy sets whether values for removed games count toward totals.
func WithOrphanPolicy(p domain.OrphanPolicy) Option {
	return func(s *service) { s.orphans = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo      repository.Ledger
	configs   ConfigSource
	operators Authorizer
	audit     auditlog.Service
	locks     *concurrency.LockManager
	revision  atomic.Uint64

	persistTimeout time.Duration
	maxRetries     int
	orphans        domain.OrphanPolicy
	now            func() time.Time
	fold           cases.Caser
}

// NewService creates the scoring ledger.
func NewService(repo repository.Ledger, configs ConfigSource, operators Authorizer, audit auditlog.Service, opts ...Option) Service {
	s := &service{
		repo:           repo,
		configs:        configs,
		operators:      operators,
		audit:          audit,
		locks:          concurrency.NewLockManager(),
		persistTimeout: DefaultPersistTimeout,
		maxRetries:     DefaultMaxRetries,
		orphans:        domain.OrphanKeep,
		now:            time.Now,
		fold:           cases.Fold(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---- Scores ----

func (s *service) SubmitScore(ctx context.Context, caller domain.Caller, participantID string, gameNumber, raw int) (*domain.ScoreRecord, error) {
	log := logger.FromContext(ctx).With(
		LogFieldParticipant, participantID,
		LogFieldGame, gameNumber,
		LogFieldOperator, caller.Identity)

	rec, entry, err := s.submit(ctx, caller, participantID, gameNumber, raw)
	if err != nil {
		metrics.ScoreRejections.WithLabelValues(metrics.ReasonFor(err)).Inc()
		if errors.Is(err, domain.ErrPersistence) {
			log.Error(LogMsgScorePersistFailed, LogFieldError, err)
		} else {
			log.Warn(LogMsgScoreRejected, LogFieldError, err)
		}
		return nil, err
	}

	metrics.ScoresSubmitted.WithLabelValues(strconv.Itoa(gameNumber), string(entry.Action)).Inc()
	metrics.AuditEntries.WithLabelValues(string(entry.Action)).Inc()
	log.Info(LogMsgScoreSubmitted,
		LogFieldOldValue, entry.OldValue,
		LogFieldNewValue, entry.NewValue,
		LogFieldAction, entry.Action,
		LogFieldTotal, rec.Total,
		LogFieldTier, rec.Tier)
	return rec, nil
}

func (s *service) submit(ctx context.Context, caller domain.Caller, participantID string, gameNumber, raw int) (*domain.ScoreRecord, domain.AuditEntry, error) {
	cfg := s.configs.Snapshot()
	def, value, err := resolveSubmission(cfg, gameNumber, raw)
	if err != nil {
		return nil, domain.AuditEntry{}, err
	}

	if caller.Anonymous() {
		return nil, domain.AuditEntry{}, domain.ErrMissingCaller
	}
	allowed, err := s.operators.Authorize(ctx, caller, gameNumber)
	if err != nil {
		return nil, domain.AuditEntry{}, err
	}
	if !allowed {
		return nil, domain.AuditEntry{}, fmt.Errorf("%w: %s may not score game %d", domain.ErrNotAssignedToGame, caller.Identity, gameNumber)
	}

	release, err := s.lock(ctx, participantID)
	if err != nil {
		return nil, domain.AuditEntry{}, err
	}
	defer release()

	if _, err := s.repo.GetParticipant(ctx, participantID); err != nil {
		return nil, domain.AuditEntry{}, repository.PersistenceError(err)
	}

	// The configuration may have moved while we waited for the lock.
	current := s.configs.Snapshot()
	if current.Version != cfg.Version {
		if now, ok := current.Games[gameNumber]; !ok || !now.Active || now != def {
			return nil, domain.AuditEntry{}, fmt.Errorf("%w: game %d changed from version %d to %d",
				domain.ErrStaleConfig, gameNumber, cfg.Version, current.Version)
		}
	}

	for attempt := 1; ; attempt++ {
		rec, entry, err := s.applyScore(ctx, caller, participantID, gameNumber, value)
		if err == nil {
			s.revision.Add(1)
			s.derive(rec, current)
			return rec, entry, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt > s.maxRetries {
			return nil, domain.AuditEntry{}, err
		}
		metrics.ScoreConflicts.Inc()
		logger.FromContext(ctx).Debug(LogMsgVersionConflict, LogFieldParticipant, participantID, LogFieldAttempt, attempt)
	}
}

// applyScore runs one read-modify-write of the participant's record together
// with its audit entry.
func (s *service) applyScore(ctx context.Context, caller domain.Caller, participantID string, gameNumber, value int) (*domain.ScoreRecord, domain.AuditEntry, error) {
	pctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	defer s.observe(OpSubmitScore, time.Now())

	tx, err := s.repo.BeginTx(pctx)
	if err != nil {
		return nil, domain.AuditEntry{}, repository.PersistenceError(err)
	}
	defer repository.SafeRollback(context.WithoutCancel(ctx), tx)

	existing, err := tx.GetScoreRecordForUpdate(pctx, participantID)
	if err != nil {
		return nil, domain.AuditEntry{}, repository.PersistenceError(err)
	}

	now := s.now()
	var next *domain.ScoreRecord
	var expected int64
	if existing == nil {
		next = &domain.ScoreRecord{ParticipantID: participantID, Scores: make(map[int]int), CreatedAt: now}
	} else {
		next = existing.Clone()
		expected = existing.Version
	}

	oldValue := existing.Value(gameNumber)
	next.Scores[gameNumber] = value
	next.Version = expected + 1
	next.LastUpdated = now

	if err := tx.SaveScoreRecord(pctx, *next, expected); err != nil {
		return nil, domain.AuditEntry{}, repository.PersistenceError(err)
	}

	entry := domain.AuditEntry{
		Timestamp:        now,
		GameNumber:       gameNumber,
		OperatorIdentity: caller.Identity,
		ParticipantID:    participantID,
		OldValue:         oldValue,
		NewValue:         value,
		Action:           domain.ResolveAuditAction(existing != nil, oldValue, value),
	}
	entry, err = s.audit.AppendWithin(pctx, tx, entry)
	if err != nil {
		return nil, domain.AuditEntry{}, err
	}

	if err := tx.Commit(pctx); err != nil {
		return nil, domain.AuditEntry{}, repository.PersistenceError(err)
	}
	return next, entry, nil
}

func (s *service) GetScore(ctx context.Context, participantID string) (*domain.ScoreRecord, error) {
	if _, err := s.repo.GetParticipant(ctx, participantID); err != nil {
		return nil, repository.PersistenceError(err)
	}
	rec, err := s.repo.GetScoreRecord(ctx, participantID)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	if rec == nil {
		rec = &domain.ScoreRecord{ParticipantID: participantID, Scores: make(map[int]int)}
	}
	s.derive(rec, s.configs.Snapshot())
	return rec, nil
}

func (s *service) ListScores(ctx context.Context, filter ScoreFilter) ([]domain.ScoreRecord, error) {
	records, err := s.repo.ListScoreRecords(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}

	cfg := s.configs.Snapshot()
	out := make([]domain.ScoreRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if len(filter.ParticipantIDs) > 0 && !slices.Contains(filter.ParticipantIDs, rec.ParticipantID) {
			continue
		}
		s.derive(rec, cfg)
		if filter.Tier != "" && rec.Tier != filter.Tier {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *service) GameScores(ctx context.Context, gameNumber int) ([]domain.GameScoreRow, error) {
	cfg := s.configs.Snapshot()
	if _, ok := cfg.Games[gameNumber]; !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrGameNotFound, gameNumber)
	}

	participants, err := s.repo.ListParticipants(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	records, err := s.repo.ListScoreRecords(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	byID := make(map[string]*domain.ScoreRecord, len(records))
	for i := range records {
		s.derive(&records[i], cfg)
		byID[records[i].ParticipantID] = &records[i]
	}

	rows := make([]domain.GameScoreRow, 0, len(participants))
	for _, p := range participants {
		row := domain.GameScoreRow{ParticipantID: p.ID, Name: p.Name}
		if rec, ok := byID[p.ID]; ok {
			row.Value, row.Scored = rec.Scores[gameNumber]
			row.Total = rec.Total
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *service) ClearAllScores(ctx context.Context, caller domain.Caller) (int, error) {
	log := logger.FromContext(ctx)

	if caller.Anonymous() {
		return 0, domain.ErrMissingCaller
	}
	if !caller.IsAdmin {
		return 0, domain.ErrAdminRequired
	}

	records, err := s.repo.ListScoreRecords(ctx)
	if err != nil {
		return 0, repository.PersistenceError(err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	// Records arrive ordered by id, so locks are always taken in the same order.
	for _, rec := range records {
		release, err := s.lock(ctx, rec.ParticipantID)
		if err != nil {
			return 0, err
		}
		defer release()
	}

	entries, err := s.clearRecords(ctx, caller, records)
	if err != nil {
		log.Error(LogMsgScorePersistFailed, LogFieldError, err)
		return 0, err
	}

	s.revision.Add(1)
	for _, e := range entries {
		metrics.AuditEntries.WithLabelValues(string(e.Action)).Inc()
	}
	log.Info(LogMsgScoresCleared, LogFieldCount, len(records), LogFieldOperator, caller.Identity)
	return len(records), nil
}

func (s *service) clearRecords(ctx context.Context, caller domain.Caller, records []domain.ScoreRecord) ([]domain.AuditEntry, error) {
	pctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	defer s.observe(OpClearScores, time.Now())

	tx, err := s.repo.BeginTx(pctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	defer repository.SafeRollback(context.WithoutCancel(ctx), tx)

	now := s.now()
	var entries []domain.AuditEntry
	for _, listed := range records {
		rec, err := tx.GetScoreRecordForUpdate(pctx, listed.ParticipantID)
		if err != nil {
			return nil, repository.PersistenceError(err)
		}
		if rec == nil {
			continue
		}

		games := slices.Sorted(maps.Keys(rec.Scores))
		for _, game := range games {
			old := rec.Scores[game]
			if old == 0 {
				continue
			}
			entry := domain.AuditEntry{
				Timestamp:        now,
				GameNumber:       game,
				OperatorIdentity: caller.Identity,
				ParticipantID:    rec.ParticipantID,
				OldValue:         old,
				NewValue:         0,
				Action:           domain.AuditClear,
			}
			stored, err := s.audit.AppendWithin(pctx, tx, entry)
			if err != nil {
				return nil, err
			}
			entries = append(entries, stored)
		}

		if err := tx.DeleteScoreRecord(pctx, rec.ParticipantID); err != nil {
			return nil, repository.PersistenceError(err)
		}
	}

	if err := tx.Commit(pctx); err != nil {
		return nil, repository.PersistenceError(err)
	}
	return entries, nil
}

// ---- Participants ----

func (s *service) RegisterParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.ID == "" {
		return domain.Participant{}, fmt.Errorf("%w: participant id is required", domain.ErrInvalidInput)
	}
	if p.Name == "" {
		return domain.Participant{}, fmt.Errorf("%w: participant name is required", domain.ErrInvalidInput)
	}
	p.RegisteredAt = s.now()

	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return domain.Participant{}, repository.PersistenceError(err)
	}

	s.revision.Add(1)
	logger.FromContext(ctx).Info(LogMsgParticipantAdded, LogFieldParticipant, p.ID)
	return p, nil
}

func (s *service) GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error) {
	p, err := s.repo.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	return p, nil
}

// ListParticipants matches search case-insensitively against id and name.
// An empty search returns everyone.
func (s *service) ListParticipants(ctx context.Context, search string) ([]domain.Participant, error) {
	participants, err := s.repo.ListParticipants(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}

	needle := s.fold.String(strings.TrimSpace(search))
	if needle == "" {
		return participants, nil
	}

	out := make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		if strings.Contains(s.fold.String(p.ID), needle) || strings.Contains(s.fold.String(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) DeleteParticipant(ctx context.Context, participantID string) error {
	release, err := s.lock(ctx, participantID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.deleteParticipant(ctx, participantID); err != nil {
		return err
	}

	s.revision.Add(1)
	logger.FromContext(ctx).Info(LogMsgParticipantDeleted, LogFieldParticipant, participantID)
	return nil
}

func (s *service) deleteParticipant(ctx context.Context, participantID string) error {
	pctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	defer s.observe(OpDeleteParticipant, time.Now())

	tx, err := s.repo.BeginTx(pctx)
	if err != nil {
		return repository.PersistenceError(err)
	}
	defer repository.SafeRollback(context.WithoutCancel(ctx), tx)

	if err := tx.DeleteParticipant(pctx, participantID); err != nil {
		return repository.PersistenceError(err)
	}
	return repository.PersistenceError(tx.Commit(pctx))
}

func (s *service) DeleteParticipants(ctx context.Context, participantIDs []string) []BulkDeleteResult {
	results := make([]BulkDeleteResult, 0, len(participantIDs))
	for _, id := range participantIDs {
		if err := s.DeleteParticipant(ctx, id); err != nil {
			logger.FromContext(ctx).Warn(LogMsgBulkDeleteItemError, LogFieldParticipant, id, LogFieldError, err)
			results = append(results, BulkDeleteResult{ParticipantID: id, Error: err.Error()})
			continue
		}
		results = append(results, BulkDeleteResult{ParticipantID: id, Deleted: true})
	}
	return results
}

// ---- Reads for the leaderboard ----

func (s *service) Standings(ctx context.Context) (*Standings, error) {
	revision := s.revision.Load()
	cfg := s.configs.Snapshot()

	participants, err := s.repo.ListParticipants(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	records, err := s.repo.ListScoreRecords(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	for i := range records {
		s.derive(&records[i], cfg)
	}

	return &Standings{
		Revision:      revision,
		ConfigVersion: cfg.Version,
		Thresholds:    cfg.Thresholds,
		Participants:  participants,
		Records:       records,
	}, nil
}

func (s *service) Revision() uint64 {
	return s.revision.Load()
}

// ---- helpers ----

// resolveSubmission finds the game and normalizes raw against it.
func resolveSubmission(cfg *domain.GameConfig, gameNumber, raw int) (domain.GameDefinition, int, error) {
	def, ok := cfg.Games[gameNumber]
	if !ok {
		return domain.GameDefinition{}, 0, fmt.Errorf("%w: %d", domain.ErrUnknownGame, gameNumber)
	}
	if !def.Active {
		return domain.GameDefinition{}, 0, fmt.Errorf("%w: %d", domain.ErrInactiveGame, gameNumber)
	}
	value, err := def.Normalize(raw)
	if err != nil {
		return domain.GameDefinition{}, 0, err
	}
	return def, value, nil
}

// derive sets Total and Tier from the stored values.
func (s *service) derive(rec *domain.ScoreRecord, cfg *domain.GameConfig) {
	total := 0
	for game, v := range rec.Scores {
		if s.orphans == domain.OrphanExclude {
			if _, ok := cfg.Games[game]; !ok {
				continue
			}
		}
		total += v
	}
	rec.Total = total
	rec.Tier = domain.Classify(total, cfg.Thresholds)
}

// lock takes the participant's exclusive section, waiting at most the
// persistence timeout.
func (s *service) lock(ctx context.Context, participantID string) (func(), error) {
	lctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	release, err := s.locks.Acquire(lctx, participantID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, repository.PersistenceError(ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrParticipantBusy, participantID)
	}
	return release, nil
}

func (s *service) observe(op string, start time.Time) {
	metrics.PersistenceDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
