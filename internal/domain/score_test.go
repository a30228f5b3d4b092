package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	thresholds := GiftThresholds{GoldMin: 40, SilverMin: 30}

	tests := []struct {
		total int
		want  Tier
	}{
		{50, TierGold},
		{40, TierGold},
		{39, TierSilver},
		{30, TierSilver},
		{29, TierParticipation},
		{0, TierParticipation},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.total, thresholds), "total %d", tt.total)
	}
}

func TestGameDefinition_Normalize(t *testing.T) {
	points := GameDefinition{Number: 1, Name: "Darts", Kind: ScoringPoints, MaxPoints: 10, Active: true}
	winLose := GameDefinition{Number: 2, Name: "Chess", Kind: ScoringWinLose, WinPoints: 15, LosePoints: 5, Active: true}

	t.Run("points in range", func(t *testing.T) {
		v, err := points.Normalize(10)
		require.NoError(t, err)
		assert.Equal(t, 10, v)
	})

	t.Run("points above max", func(t *testing.T) {
		_, err := points.Normalize(11)
		require.ErrorIs(t, err, ErrOutOfRange)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("points negative", func(t *testing.T) {
		_, err := points.Normalize(-1)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("win and lose", func(t *testing.T) {
		v, err := winLose.Normalize(OutcomeWin)
		require.NoError(t, err)
		assert.Equal(t, 15, v)

		v, err = winLose.Normalize(OutcomeLose)
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	})

	t.Run("win lose rejects other values", func(t *testing.T) {
		_, err := winLose.Normalize(2)
		require.ErrorIs(t, err, ErrInvalidValue)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestGiftThresholds_Validate(t *testing.T) {
	assert.NoError(t, GiftThresholds{GoldMin: 40, SilverMin: 30}.Validate(50))
	assert.NoError(t, GiftThresholds{GoldMin: 50, SilverMin: 0}.Validate(50))
	assert.ErrorIs(t, GiftThresholds{GoldMin: 30, SilverMin: 30}.Validate(50), ErrInvalidThreshold)
	assert.ErrorIs(t, GiftThresholds{GoldMin: 51, SilverMin: 30}.Validate(50), ErrInvalidThreshold)
	assert.ErrorIs(t, GiftThresholds{GoldMin: 40, SilverMin: -1}.Validate(50), ErrInvalidThreshold)
}

func TestDefaultGameConfig(t *testing.T) {
	cfg := DefaultGameConfig(time.Now())

	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Games, DefaultGameCount)
	assert.Equal(t, 50, cfg.MaxPossibleTotal())
	assert.Equal(t, int64(1), cfg.Version)

	games := cfg.SortedGames()
	for i, g := range games {
		assert.Equal(t, i+1, g.Number)
	}
}

func TestGameConfig_CloneIsIndependent(t *testing.T) {
	cfg := DefaultGameConfig(time.Now())
	clone := cfg.Clone()

	delete(clone.Games, 1)
	clone.Thresholds.GoldMin = 45

	assert.Len(t, cfg.Games, DefaultGameCount)
	assert.Equal(t, DefaultGoldMin, cfg.Thresholds.GoldMin)
}

func TestResolveAuditAction(t *testing.T) {
	assert.Equal(t, AuditCreate, ResolveAuditAction(false, 0, 7))
	assert.Equal(t, AuditCreate, ResolveAuditAction(false, 0, 0))
	assert.Equal(t, AuditUpdate, ResolveAuditAction(true, 0, 7))
	assert.Equal(t, AuditUpdate, ResolveAuditAction(true, 3, 7))
	assert.Equal(t, AuditClear, ResolveAuditAction(true, 3, 0))
	assert.Equal(t, AuditUpdate, ResolveAuditAction(true, 0, 0))
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrPersistenceTimeout, ErrPersistence)
	assert.ErrorIs(t, ErrStaleConfig, ErrConflict)
	assert.ErrorIs(t, ErrParticipantNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrNotAssignedToGame, ErrUnauthorized)
	assert.NotErrorIs(t, ErrOutOfRange, ErrConflict)
}
