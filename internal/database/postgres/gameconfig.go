package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// gameConfigDocument is the JSONB body; version and timestamp are columns.
type gameConfigDocument struct {
	Games      []domain.GameDefinition `json:"games"`
	Thresholds domain.GiftThresholds   `json:"thresholds"`
}

// GameConfigRepository stores the single game configuration row.
type GameConfigRepository struct {
	db *pgxpool.Pool
}

// NewGameConfigRepository creates a new PostgreSQL game config repository
func NewGameConfigRepository(db *pgxpool.Pool) *GameConfigRepository {
	return &GameConfigRepository{db: db}
}

func (r *GameConfigRepository) LoadGameConfig(ctx context.Context) (*domain.GameConfig, error) {
	var raw []byte
	cfg := &domain.GameConfig{}
	err := r.db.QueryRow(ctx, `
		SELECT document, version, last_updated FROM game_config WHERE config_id = $1`, gameConfigRowID).
		Scan(&raw, &cfg.Version, &cfg.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game config: %w", err)
	}

	var doc gameConfigDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeConfig, err)
	}

	cfg.Thresholds = doc.Thresholds
	cfg.Games = make(map[int]domain.GameDefinition, len(doc.Games))
	for _, g := range doc.Games {
		cfg.Games[g.Number] = g
	}
	return cfg, nil
}

func (r *GameConfigRepository) SaveGameConfig(ctx context.Context, cfg domain.GameConfig, expectedVersion int64) error {
	raw, err := json.Marshal(gameConfigDocument{Games: cfg.SortedGames(), Thresholds: cfg.Thresholds})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeConfig, err)
	}

	var query string
	args := []any{gameConfigRowID, raw, cfg.Version, cfg.LastUpdated.UTC()}
	if expectedVersion == 0 {
		query = `
			INSERT INTO game_config (config_id, document, version, last_updated)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (config_id) DO NOTHING`
	} else {
		query = `
			UPDATE game_config SET document = $2, version = $3, last_updated = $4
			WHERE config_id = $1 AND version = $5`
		args = append(args, expectedVersion)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save game config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: game config expected version %d", domain.ErrVersionConflict, expectedVersion)
	}
	return nil
}
