package repository

import (
	"context"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// GameConfig persists the single game configuration document.
type GameConfig interface {
	// LoadGameConfig returns nil when nothing has been stored yet.
	LoadGameConfig(ctx context.Context) (*domain.GameConfig, error)
	// SaveGameConfig stores cfg when the stored version equals expectedVersion
	// (0 when nothing is stored). Returns domain.ErrVersionConflict otherwise.
	SaveGameConfig(ctx context.Context, cfg domain.GameConfig, expectedVersion int64) error
}
