// Package memory is an in-process implementation of the repository
// interfaces. It backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/concurrency"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

// Store keeps every table in maps guarded by one RWMutex. Transactions
// stage their writes and apply them atomically on commit.
type Store struct {
	mu           sync.RWMutex
	participants map[string]domain.Participant
	scores       map[string]domain.ScoreRecord
	config       *domain.GameConfig
	operators    map[int]domain.OperatorAssignment
	audit        []domain.AuditEntry

	// rowLocks emulates SELECT ... FOR UPDATE on score records.
	rowLocks *concurrency.LockManager
	// auditMu is held by a transaction from its first audit append until it
	// ends, which keeps sequence numbers gapless.
	auditMu sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		participants: make(map[string]domain.Participant),
		scores:       make(map[string]domain.ScoreRecord),
		operators:    make(map[int]domain.OperatorAssignment),
		rowLocks:     concurrency.NewLockManager(),
	}
}

var (
	_ repository.Ledger     = (*Store)(nil)
	_ repository.AuditLog   = (*Store)(nil)
	_ repository.GameConfig = (*Store)(nil)
	_ repository.Operator   = (*Store)(nil)
)

// Ping reports whether the store can serve requests. It always can.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ---- Participants and scores ----

func (s *Store) CreateParticipant(ctx context.Context, p domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[p.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateParticipant, p.ID)
	}
	s.participants[p.ID] = p
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[participantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrParticipantNotFound, participantID)
	}
	return &p, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Participant) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) GetScoreRecord(ctx context.Context, participantID string) (*domain.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.scores[participantID]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (s *Store) ListScoreRecords(ctx context.Context) ([]domain.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScoreRecord, 0, len(s.scores))
	for _, rec := range s.scores {
		out = append(out, *rec.Clone())
	}
	slices.SortFunc(out, func(a, b domain.ScoreRecord) int { return strings.Compare(a.ParticipantID, b.ParticipantID) })
	return out, nil
}

func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ledgerTx{store: s}, nil
}

// ---- Audit ----

// AppendAudit appends outside any ledger transaction.
func (s *Store) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuditEntry{}, err
	}
	s.auditMu.Lock()
	defer s.auditMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Sequence = int64(len(s.audit)) + 1
	entry.Timestamp = clampStamp(entry.Timestamp, s.lastAuditStampLocked())
	s.audit = append(s.audit, entry)
	return entry, nil
}

// lastAuditStampLocked returns the newest committed entry's timestamp.
// Caller holds mu.
func (s *Store) lastAuditStampLocked() time.Time {
	if len(s.audit) == 0 {
		return time.Time{}
	}
	return s.audit[len(s.audit)-1].Timestamp
}

// clampStamp stamps an entry with ts, or now when ts is zero, never earlier than prev.
func clampStamp(ts, prev time.Time) time.Time {
	if ts.IsZero() {
		ts = time.Now()
	}
	if ts.Before(prev) {
		return prev
	}
	return ts
}

func (s *Store) QueryAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AuditEntry
	for i := len(s.audit) - 1; i >= 0; i-- {
		e := s.audit[i]
		if filter.GameNumber != nil && e.GameNumber != *filter.GameNumber {
			continue
		}
		if filter.OperatorIdentity != nil && e.OperatorIdentity != *filter.OperatorIdentity {
			continue
		}
		if filter.ParticipantID != nil && e.ParticipantID != *filter.ParticipantID {
			continue
		}
		if filter.Since != nil && e.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// ---- Game configuration ----

func (s *Store) LoadGameConfig(ctx context.Context) (*domain.GameConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return nil, nil
	}
	return s.config.Clone(), nil
}

func (s *Store) SaveGameConfig(ctx context.Context, cfg domain.GameConfig, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if s.config != nil {
		current = s.config.Version
	}
	if current != expectedVersion {
		return fmt.Errorf("%w: game config expected version %d, stored %d", domain.ErrVersionConflict, expectedVersion, current)
	}
	s.config = cfg.Clone()
	return nil
}

// ---- Operators ----

func (s *Store) InsertOperator(ctx context.Context, a domain.OperatorAssignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.operators[a.GameNumber]; ok {
		return fmt.Errorf("%w: game %d", domain.ErrAlreadyAssigned, a.GameNumber)
	}
	for _, existing := range s.operators {
		if existing.Identity == a.Identity {
			return fmt.Errorf("%w: identity %s", domain.ErrAlreadyAssigned, a.Identity)
		}
	}
	s.operators[a.GameNumber] = a
	return nil
}

func (s *Store) DeleteOperator(ctx context.Context, gameNumber int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.operators[gameNumber]; !ok {
		return fmt.Errorf("%w: game %d", domain.ErrOperatorNotFound, gameNumber)
	}
	delete(s.operators, gameNumber)
	return nil
}

func (s *Store) GetOperatorByGame(ctx context.Context, gameNumber int) (*domain.OperatorAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.operators[gameNumber]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) GetOperatorByIdentity(ctx context.Context, identity string) (*domain.OperatorAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.operators {
		if a.Identity == identity {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) ListOperators(ctx context.Context) ([]domain.OperatorAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OperatorAssignment, 0, len(s.operators))
	for _, a := range s.operators {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.OperatorAssignment) int { return a.GameNumber - b.GameNumber })
	return out, nil
}

func (s *Store) UpdateOperatorCredential(ctx context.Context, gameNumber int, credentialHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.operators[gameNumber]
	if !ok {
		return fmt.Errorf("%w: game %d", domain.ErrOperatorNotFound, gameNumber)
	}
	a.CredentialHash = credentialHash
	s.operators[gameNumber] = a
	return nil
}
