package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ScoreLedger_Go/internal/database/memory"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

func entry(game int, op, participant string, oldV, newV int, action domain.AuditAction) domain.AuditEntry {
	return domain.AuditEntry{
		GameNumber:       game,
		OperatorIdentity: op,
		ParticipantID:    participant,
		OldValue:         oldV,
		NewValue:         newV,
		Action:           action,
	}
}

func TestAppend_SequenceIsGapless(t *testing.T) {
	svc := NewService(memory.NewStore())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		stored, err := svc.Append(ctx, entry(1, "op1", "P1", i-1, i, domain.AuditUpdate))
		require.NoError(t, err)
		assert.Equal(t, int64(i), stored.Sequence)
	}
}

func TestAppend_StampsTimestamp(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	before := time.Now()
	_, err := svc.Append(ctx, entry(1, "op1", "P1", 0, 3, domain.AuditCreate))
	require.NoError(t, err)

	entries, err := svc.Query(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Timestamp.Before(before))
}

func TestAppend_TimestampNeverPrecedesEarlierSequence(t *testing.T) {
	svc := NewService(memory.NewStore())
	ctx := context.Background()

	late := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)
	early := late.Add(-3 * time.Second)

	first := entry(1, "op1", "P1", 0, 1, domain.AuditCreate)
	first.Timestamp = late
	second := entry(1, "op1", "P2", 0, 2, domain.AuditCreate)
	second.Timestamp = early

	a, err := svc.Append(ctx, first)
	require.NoError(t, err)
	b, err := svc.Append(ctx, second)
	require.NoError(t, err)

	assert.Less(t, a.Sequence, b.Sequence)
	assert.True(t, b.Timestamp.Equal(late), "later sequence stamped %v, want %v", b.Timestamp, late)
}

func TestAppend_RejectsInvalidEntries(t *testing.T) {
	svc := NewService(new(MockRepository))
	ctx := context.Background()

	tests := []struct {
		name  string
		entry domain.AuditEntry
	}{
		{"unknown action", entry(1, "op1", "P1", 0, 1, "bogus")},
		{"missing participant", entry(1, "op1", "", 0, 1, domain.AuditCreate)},
		{"missing operator", entry(1, "", "P1", 0, 1, domain.AuditCreate)},
		{"bad game", entry(0, "op1", "P1", 0, 1, domain.AuditCreate)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Append(ctx, tt.entry)
			assert.ErrorIs(t, err, domain.ErrInvalidAuditEntry)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAppend_StorageFailureIsPersistenceError(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("AppendAudit", ctx, mock.Anything).Return(domain.AuditEntry{}, errors.New("disk full"))

	_, err := svc.Append(ctx, entry(1, "op1", "P1", 0, 1, domain.AuditCreate))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	repo.AssertExpectations(t)
}

func TestQuery_FiltersNewestFirst(t *testing.T) {
	svc := NewService(memory.NewStore())
	ctx := context.Background()

	_, _ = svc.Append(ctx, entry(1, "op1", "P1", 0, 4, domain.AuditCreate))
	_, _ = svc.Append(ctx, entry(2, "op2", "P1", 0, 10, domain.AuditUpdate))
	_, _ = svc.Append(ctx, entry(1, "op1", "P2", 0, 7, domain.AuditCreate))
	_, _ = svc.Append(ctx, entry(1, "op1", "P1", 4, 0, domain.AuditClear))

	byGame, err := svc.ByGame(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, byGame, 3)
	assert.Equal(t, int64(4), byGame[0].Sequence)
	assert.Equal(t, int64(3), byGame[1].Sequence)
	assert.Equal(t, int64(1), byGame[2].Sequence)

	byOp, err := svc.ByOperator(ctx, "op2", 0)
	require.NoError(t, err)
	require.Len(t, byOp, 1)
	assert.Equal(t, 2, byOp[0].GameNumber)

	limited, err := svc.ByGame(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := svc.ByOperator(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestQuery_ClampsLimit(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("QueryAudit", ctx, domain.AuditFilter{Limit: domain.DefaultAuditLimit}).Return([]domain.AuditEntry{}, nil).Once()
	repo.On("QueryAudit", ctx, domain.AuditFilter{Limit: domain.MaxAuditLimit}).Return([]domain.AuditEntry{}, nil).Once()

	_, err := svc.Query(ctx, domain.AuditFilter{Limit: -1})
	require.NoError(t, err)
	_, err = svc.Query(ctx, domain.AuditFilter{Limit: domain.MaxAuditLimit + 500})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
