package gameconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/validation"
)

type seedFile struct {
	Games []struct {
		Number      int                `json:"number"`
		Name        string             `json:"name"`
		Description string             `json:"description"`
		Kind        domain.ScoringKind `json:"kind"`
		MaxPoints   int                `json:"max_points"`
		WinPoints   int                `json:"win_points"`
		LosePoints  int                `json:"lose_points"`
		Active      *bool              `json:"active"`
	} `json:"games"`
	Thresholds domain.GiftThresholds `json:"thresholds"`
}

// LoadSeedFile reads a game configuration seed from path. The file is checked
// against the bundled schema before decoding; games without an explicit
// active flag start active.
func LoadSeedFile(v validation.SchemaValidator, path string, now time.Time) (*domain.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return ParseSeed(v, data, now)
}

// ParseSeed decodes a validated seed document into a version 1 configuration.
func ParseSeed(v validation.SchemaValidator, data []byte, now time.Time) (*domain.GameConfig, error) {
	if err := v.ValidateBytes(data, validation.GameSeedSchema); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}

	var raw seedFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}

	cfg := &domain.GameConfig{
		Games:       make(map[int]domain.GameDefinition, len(raw.Games)),
		Thresholds:  raw.Thresholds,
		Version:     1,
		LastUpdated: now,
	}
	for _, g := range raw.Games {
		if _, dup := cfg.Games[g.Number]; dup {
			return nil, fmt.Errorf("%w: game %d listed twice", domain.ErrInvalidDefinition, g.Number)
		}
		active := true
		if g.Active != nil {
			active = *g.Active
		}
		cfg.Games[g.Number] = domain.GameDefinition{
			Number:      g.Number,
			Name:        g.Name,
			Description: g.Description,
			Kind:        g.Kind,
			MaxPoints:   g.MaxPoints,
			WinPoints:   g.WinPoints,
			LosePoints:  g.LosePoints,
			Active:      active,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
