package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/repository"
)

func newRecord(id string, version int64, scores map[int]int) domain.ScoreRecord {
	now := time.Now()
	return domain.ScoreRecord{ParticipantID: id, Scores: scores, Version: version, CreatedAt: now, LastUpdated: now}
}

func entryFor(id string, game, value int) domain.AuditEntry {
	return domain.AuditEntry{Timestamp: time.Now(), GameNumber: game, OperatorIdentity: "op", ParticipantID: id, NewValue: value, Action: domain.AuditCreate}
}

func TestStore_TxCommitAppliesScoreAndAudit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateParticipant(ctx, domain.Participant{ID: "P1", Name: "Ana"}))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	existing, err := tx.GetScoreRecordForUpdate(ctx, "P1")
	require.NoError(t, err)
	assert.Nil(t, existing)

	require.NoError(t, tx.SaveScoreRecord(ctx, newRecord("P1", 1, map[int]int{1: 6}), 0))
	stored, err := tx.AppendAudit(ctx, entryFor("P1", 1, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Sequence)

	// Nothing is visible before commit.
	rec, err := s.GetScoreRecord(ctx, "P1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, tx.Commit(ctx))
	assert.ErrorIs(t, tx.Rollback(ctx), domain.ErrTxClosed)

	rec, err = s.GetScoreRecord(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 6, rec.Scores[1])

	entries, err := s.QueryAudit(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Sequence)
}

func TestStore_TxRollbackIsInvisibleAndGapless(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateParticipant(ctx, domain.Participant{ID: "P1"}))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveScoreRecord(ctx, newRecord("P1", 1, map[int]int{1: 6}), 0))
	_, err = tx.AppendAudit(ctx, entryFor("P1", 1, 6))
	require.NoError(t, err)
	repository.SafeRollback(ctx, tx)

	rec, err := s.GetScoreRecord(ctx, "P1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	stored, err := s.AppendAudit(ctx, entryFor("P1", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Sequence)
}

func TestStore_CommitRejectsVersionConflict(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateParticipant(ctx, domain.Participant{ID: "P1"}))

	first, err := s.BeginTx(ctx)
	require.NoError(t, err)
	second, err := s.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, first.SaveScoreRecord(ctx, newRecord("P1", 1, map[int]int{1: 1}), 0))
	require.NoError(t, second.SaveScoreRecord(ctx, newRecord("P1", 1, map[int]int{2: 2}), 0))

	require.NoError(t, first.Commit(ctx))
	assert.ErrorIs(t, second.Commit(ctx), domain.ErrVersionConflict)

	rec, err := s.GetScoreRecord(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1}, rec.Scores)
}

func TestStore_RowLockSerializesForUpdate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateParticipant(ctx, domain.Participant{ID: "P1"}))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetScoreRecordForUpdate(ctx, "P1")
	require.NoError(t, err)

	blocked, err := s.BeginTx(ctx)
	require.NoError(t, err)
	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = blocked.GetScoreRecordForUpdate(shortCtx, "P1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	repository.SafeRollback(ctx, blocked)

	require.NoError(t, tx.Rollback(ctx))

	again, err := s.BeginTx(ctx)
	require.NoError(t, err)
	_, err = again.GetScoreRecordForUpdate(ctx, "P1")
	require.NoError(t, err)
	require.NoError(t, again.Rollback(ctx))
}

func TestStore_ConcurrentAuditSequencesAreGapless(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx, err := s.BeginTx(ctx)
			if err != nil {
				return
			}
			_, _ = tx.AppendAudit(ctx, entryFor("P", 1, i))
			if i%2 == 0 {
				_ = tx.Commit(ctx)
			} else {
				_ = tx.Rollback(ctx)
			}
		}(i)
	}
	wg.Wait()

	entries, err := s.QueryAudit(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, int64(20-i), e.Sequence)
	}
}

func TestStore_AuditTimestampsFollowSequence(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Stamps are taken before the sequence lock, so a writer that read the
	// clock earlier can still be assigned the later sequence number.
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := entryFor("P", 1, i)
			e.Timestamp = base.Add(time.Duration(30-i) * time.Second)
			tx, err := s.BeginTx(ctx)
			if err != nil {
				return
			}
			if _, err := tx.AppendAudit(ctx, e); err != nil {
				_ = tx.Rollback(ctx)
				return
			}
			_ = tx.Commit(ctx)
		}(i)
	}
	wg.Wait()

	stored, err := s.AppendAudit(ctx, domain.AuditEntry{Timestamp: base, GameNumber: 1, OperatorIdentity: "op", ParticipantID: "P", Action: domain.AuditCreate})
	require.NoError(t, err)

	entries, err := s.QueryAudit(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 31)
	assert.Equal(t, entries[0].Sequence, stored.Sequence)
	assert.True(t, stored.Timestamp.Equal(entries[1].Timestamp) || stored.Timestamp.After(entries[1].Timestamp))

	// entries are newest first.
	for i := 1; i < len(entries); i++ {
		newer, older := entries[i-1], entries[i]
		assert.Greater(t, newer.Sequence, older.Sequence)
		assert.False(t, newer.Timestamp.Before(older.Timestamp),
			"sequence %d stamped %v before sequence %d at %v", newer.Sequence, newer.Timestamp, older.Sequence, older.Timestamp)
	}
}

func TestStore_TxStampsStagedEntriesInOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	first := entryFor("P1", 1, 1)
	first.Timestamp = base.Add(time.Minute)
	second := entryFor("P1", 2, 1)
	second.Timestamp = base

	a, err := tx.AppendAudit(ctx, first)
	require.NoError(t, err)
	b, err := tx.AppendAudit(ctx, second)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, a.Sequence+1, b.Sequence)
	assert.True(t, b.Timestamp.Equal(a.Timestamp))
}

func TestStore_DeleteParticipantCascadesScores(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateParticipant(ctx, domain.Participant{ID: "P1"}))

	tx, _ := s.BeginTx(ctx)
	require.NoError(t, tx.SaveScoreRecord(ctx, newRecord("P1", 1, map[int]int{1: 3}), 0))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = s.BeginTx(ctx)
	require.NoError(t, tx.DeleteParticipant(ctx, "P1"))
	require.NoError(t, tx.Commit(ctx))

	_, err := s.GetParticipant(ctx, "P1")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	records, err := s.ListScoreRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	tx, _ = s.BeginTx(ctx)
	assert.ErrorIs(t, tx.DeleteParticipant(ctx, "P1"), domain.ErrParticipantNotFound)
	require.NoError(t, tx.Rollback(ctx))
}

func TestStore_OperatorsAndConfig(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.InsertOperator(ctx, domain.OperatorAssignment{GameNumber: 1, Identity: "a"}))
	assert.ErrorIs(t, s.InsertOperator(ctx, domain.OperatorAssignment{GameNumber: 2, Identity: "a"}), domain.ErrAlreadyAssigned)
	assert.ErrorIs(t, s.InsertOperator(ctx, domain.OperatorAssignment{GameNumber: 1, Identity: "b"}), domain.ErrAlreadyAssigned)

	cfg := domain.DefaultGameConfig(time.Now())
	require.NoError(t, s.SaveGameConfig(ctx, *cfg, 0))
	assert.ErrorIs(t, s.SaveGameConfig(ctx, *cfg, 0), domain.ErrVersionConflict)

	loaded, err := s.LoadGameConfig(ctx)
	require.NoError(t, err)
	loaded.Games[99] = domain.GameDefinition{Number: 99}

	again, err := s.LoadGameConfig(ctx)
	require.NoError(t, err)
	assert.NotContains(t, again.Games, 99, "loaded configs are copies")
}
