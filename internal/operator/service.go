package operator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

// GameLookup checks that a game exists before an operator is bound to it.
type GameLookup interface {
	GetGame(number int) (domain.GameDefinition, error)
}

// Service is the operator directory: which identity may score which game.
type Service interface {
	Assign(ctx context.Context, gameNumber int, identity, name, credential string) (domain.OperatorAssignment, error)
	CreateOperator(ctx context.Context, gameNumber int, name, credential string) (*domain.OperatorCredential, error)
	BulkCreateOperators(ctx context.Context, gameNumbers []int) []BulkResult
	Revoke(ctx context.Context, gameNumber int) error

	// Resolve returns the game assigned to identity; ok is false when none is.
	Resolve(ctx context.Context, identity string) (gameNumber int, ok bool, err error)
	// Authorize reports whether caller may submit scores for gameNumber.
	Authorize(ctx context.Context, caller domain.Caller, gameNumber int) (bool, error)
	VerifyCredential(ctx context.Context, identity, secret string) (domain.OperatorAssignment, error)

	ResetCredential(ctx context.Context, gameNumber int) (*domain.OperatorCredential, error)
	ResetAllCredentials(ctx context.Context) ([]BulkResult, error)
	ListOperators(ctx context.Context) ([]domain.OperatorAssignment, error)
}

// BulkResult reports the outcome of one game in a bulk action.
type BulkResult struct {
	GameNumber int                        `json:"game_number"`
	Credential *domain.OperatorCredential `json:"credential,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

// Option configures the service.
type Option func(*service)

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *service) { s.hashCost = cost }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo     repository.Operator
	games    GameLookup
	cache    *assignmentCache
	mu       sync.Mutex // serializes check-then-write on assignments
	hashCost int
	now      func() time.Time
}

// NewService creates a new operator directory.
func NewService(repo repository.Operator, games GameLookup, opts ...Option) Service {
	s := &service{
		repo:     repo,
		games:    games,
		cache:    newAssignmentCache(DefaultCacheSize, DefaultCacheTTL),
		hashCost: DefaultHashCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultIdentity is the identity CreateOperator uses for a game.
func DefaultIdentity(gameNumber int) string {
	return fmt.Sprintf(IdentityFormat, gameNumber)
}

func (s *service) Assign(ctx context.Context, gameNumber int, identity, name, credential string) (domain.OperatorAssignment, error) {
	log := logger.FromContext(ctx)

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return domain.OperatorAssignment{}, fmt.Errorf("%w: operator identity is required", domain.ErrInvalidInput)
	}
	if _, err := s.games.GetGame(gameNumber); err != nil {
		return domain.OperatorAssignment{}, err
	}

	hash, err := hashCredential(credential, s.hashCost)
	if err != nil {
		return domain.OperatorAssignment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := s.repo.GetOperatorByIdentity(ctx, identity); err != nil {
		return domain.OperatorAssignment{}, repository.PersistenceError(err)
	} else if existing != nil {
		return domain.OperatorAssignment{}, fmt.Errorf("%w: %s already operates game %d", domain.ErrAlreadyAssigned, identity, existing.GameNumber)
	}
	if existing, err := s.repo.GetOperatorByGame(ctx, gameNumber); err != nil {
		return domain.OperatorAssignment{}, repository.PersistenceError(err)
	} else if existing != nil {
		return domain.OperatorAssignment{}, fmt.Errorf("%w: game %d is operated by %s", domain.ErrAlreadyAssigned, gameNumber, existing.Identity)
	}

	if name == "" {
		name = identity
	}
	a := domain.OperatorAssignment{
		GameNumber:     gameNumber,
		Identity:       identity,
		Name:           name,
		CredentialHash: hash,
		CreatedAt:      s.now(),
	}
	if err := s.repo.InsertOperator(ctx, a); err != nil {
		return domain.OperatorAssignment{}, repository.PersistenceError(err)
	}

	s.cache.Set(a)
	log.Info(LogMsgOperatorAssigned, "identity", identity, "game", gameNumber)
	return a, nil
}

func (s *service) CreateOperator(ctx context.Context, gameNumber int, name, credential string) (*domain.OperatorCredential, error) {
	if credential == "" {
		generated, err := GenerateCredential(MinCredentialLength)
		if err != nil {
			return nil, err
		}
		credential = generated
	}

	a, err := s.Assign(ctx, gameNumber, DefaultIdentity(gameNumber), name, credential)
	if err != nil {
		return nil, err
	}
	return &domain.OperatorCredential{
		GameNumber: a.GameNumber,
		Identity:   a.Identity,
		Name:       a.Name,
		Credential: credential,
	}, nil
}

func (s *service) BulkCreateOperators(ctx context.Context, gameNumbers []int) []BulkResult {
	results := make([]BulkResult, 0, len(gameNumbers))
	for _, n := range gameNumbers {
		cred, err := s.CreateOperator(ctx, n, "", "")
		results = append(results, s.bulkResult(ctx, n, cred, err))
	}
	return results
}

func (s *service) Revoke(ctx context.Context, gameNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetOperatorByGame(ctx, gameNumber)
	if err != nil {
		return repository.PersistenceError(err)
	}
	if existing == nil {
		return fmt.Errorf("%w: game %d", domain.ErrOperatorNotFound, gameNumber)
	}
	if err := s.repo.DeleteOperator(ctx, gameNumber); err != nil {
		return repository.PersistenceError(err)
	}

	s.cache.Invalidate(existing.Identity)
	logger.FromContext(ctx).Info(LogMsgOperatorRevoked, "identity", existing.Identity, "game", gameNumber)
	return nil
}

func (s *service) Resolve(ctx context.Context, identity string) (int, bool, error) {
	a, err := s.lookup(ctx, identity)
	if err != nil || a == nil {
		return 0, false, err
	}
	return a.GameNumber, true, nil
}

func (s *service) Authorize(ctx context.Context, caller domain.Caller, gameNumber int) (bool, error) {
	if caller.IsAdmin {
		return true, nil
	}
	if caller.Anonymous() {
		return false, nil
	}
	assigned, ok, err := s.Resolve(ctx, caller.Identity)
	if err != nil {
		return false, err
	}
	return ok && assigned == gameNumber, nil
}

func (s *service) VerifyCredential(ctx context.Context, identity, secret string) (domain.OperatorAssignment, error) {
	a, err := s.repo.GetOperatorByIdentity(ctx, identity)
	if err != nil {
		return domain.OperatorAssignment{}, repository.PersistenceError(err)
	}
	if a == nil || !credentialMatches(a.CredentialHash, secret) {
		logger.FromContext(ctx).Warn(LogMsgCredentialRejected, "identity", identity)
		return domain.OperatorAssignment{}, domain.ErrInvalidCredential
	}
	return *a, nil
}

func (s *service) ResetCredential(ctx context.Context, gameNumber int) (*domain.OperatorCredential, error) {
	a, err := s.repo.GetOperatorByGame(ctx, gameNumber)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: game %d", domain.ErrOperatorNotFound, gameNumber)
	}

	credential, err := GenerateCredential(MinCredentialLength)
	if err != nil {
		return nil, err
	}
	hash, err := hashCredential(credential, s.hashCost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOperatorCredential(ctx, gameNumber, hash); err != nil {
		return nil, repository.PersistenceError(err)
	}

	s.cache.Invalidate(a.Identity)
	logger.FromContext(ctx).Info(LogMsgCredentialReset, "identity", a.Identity, "game", gameNumber)
	return &domain.OperatorCredential{
		GameNumber: a.GameNumber,
		Identity:   a.Identity,
		Name:       a.Name,
		Credential: credential,
	}, nil
}

func (s *service) ResetAllCredentials(ctx context.Context) ([]BulkResult, error) {
	operators, err := s.ListOperators(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]BulkResult, 0, len(operators))
	for _, a := range operators {
		cred, err := s.ResetCredential(ctx, a.GameNumber)
		results = append(results, s.bulkResult(ctx, a.GameNumber, cred, err))
	}
	return results, nil
}

func (s *service) ListOperators(ctx context.Context) ([]domain.OperatorAssignment, error) {
	operators, err := s.repo.ListOperators(ctx)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	return operators, nil
}

func (s *service) lookup(ctx context.Context, identity string) (*domain.OperatorAssignment, error) {
	if a, ok := s.cache.Get(identity); ok {
		return &a, nil
	}
	generation := s.cache.Generation()
	a, err := s.repo.GetOperatorByIdentity(ctx, identity)
	if err != nil {
		return nil, repository.PersistenceError(err)
	}
	if a != nil {
		s.cache.Fill(*a, generation)
	}
	return a, nil
}

func (s *service) bulkResult(ctx context.Context, gameNumber int, cred *domain.OperatorCredential, err error) BulkResult {
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgBulkItemFailed, "game", gameNumber, "error", err)
		return BulkResult{GameNumber: gameNumber, Error: err.Error()}
	}
	return BulkResult{GameNumber: gameNumber, Credential: cred}
}
