package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// ScoringKind selects how a raw submission is mapped to points.
type ScoringKind string

const (
	ScoringPoints  ScoringKind = "points"
	ScoringWinLose ScoringKind = "win_lose"
)

// Win/lose submissions use these raw values.
const (
	OutcomeLose = 0
	OutcomeWin  = 1
)

// Default configuration seeded on first start.
const (
	DefaultGameCount  = 5
	DefaultMaxPoints  = 10
	DefaultWinPoints  = 10
	DefaultLosePoints = 0
	DefaultGoldMin    = 40
	DefaultSilverMin  = 30
)

// GameDefinition describes one scoring station.
type GameDefinition struct {
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Kind        ScoringKind `json:"kind"`
	MaxPoints   int         `json:"max_points,omitempty"`
	WinPoints   int         `json:"win_points,omitempty"`
	LosePoints  int         `json:"lose_points,omitempty"`
	Active      bool        `json:"active"`
}

// Validate checks the kind-specific fields of a definition.
func (g GameDefinition) Validate() error {
	if g.Number < 1 {
		return fmt.Errorf("%w: game number must be positive, got %d", ErrInvalidDefinition, g.Number)
	}
	if g.Name == "" {
		return fmt.Errorf("%w: game %d has no name", ErrInvalidDefinition, g.Number)
	}
	switch g.Kind {
	case ScoringPoints:
		if g.MaxPoints < 0 {
			return fmt.Errorf("%w: max points must be non-negative", ErrInvalidDefinition)
		}
	case ScoringWinLose:
		if g.WinPoints < 0 || g.LosePoints < 0 {
			return fmt.Errorf("%w: win and lose points must be non-negative", ErrInvalidDefinition)
		}
	default:
		return fmt.Errorf("%w: unknown scoring kind %q", ErrInvalidDefinition, g.Kind)
	}
	return nil
}

// MaxContribution is the largest value this game can add to a total.
func (g GameDefinition) MaxContribution() int {
	if g.Kind == ScoringWinLose {
		return max(g.WinPoints, g.LosePoints)
	}
	return g.MaxPoints
}

// Normalize maps a raw submission to the points stored for this game.
func (g GameDefinition) Normalize(raw int) (int, error) {
	switch g.Kind {
	case ScoringPoints:
		if raw < 0 || raw > g.MaxPoints {
			return 0, fmt.Errorf("%w: game %d accepts 0..%d, got %d", ErrOutOfRange, g.Number, g.MaxPoints, raw)
		}
		return raw, nil
	case ScoringWinLose:
		switch raw {
		case OutcomeWin:
			return g.WinPoints, nil
		case OutcomeLose:
			return g.LosePoints, nil
		}
		return 0, fmt.Errorf("%w: game %d accepts %d (lose) or %d (win), got %d",
			ErrInvalidValue, g.Number, OutcomeLose, OutcomeWin, raw)
	}
	return 0, fmt.Errorf("%w: unknown scoring kind %q", ErrInvalidDefinition, g.Kind)
}

// GiftThresholds are the inclusive lower bounds of the Gold and Silver tiers.
type GiftThresholds struct {
	GoldMin   int `json:"gold_min"`
	SilverMin int `json:"silver_min"`
}

// Validate requires 0 <= silver < gold <= maxTotal.
func (t GiftThresholds) Validate(maxTotal int) error {
	if t.SilverMin < 0 || t.GoldMin > maxTotal {
		return fmt.Errorf("%w: thresholds must lie within 0..%d", ErrInvalidThreshold, maxTotal)
	}
	if t.SilverMin >= t.GoldMin {
		return fmt.Errorf("%w: silver minimum (%d) must be below gold minimum (%d)",
			ErrInvalidThreshold, t.SilverMin, t.GoldMin)
	}
	return nil
}

// GameConfig is an immutable snapshot once published. Mutators clone first.
type GameConfig struct {
	Games       map[int]GameDefinition `json:"games"`
	Thresholds  GiftThresholds         `json:"thresholds"`
	Version     int64                  `json:"version"`
	LastUpdated time.Time              `json:"last_updated"`
}

// Clone returns a deep copy safe to mutate.
func (c *GameConfig) Clone() *GameConfig {
	out := *c
	out.Games = maps.Clone(c.Games)
	if out.Games == nil {
		out.Games = make(map[int]GameDefinition)
	}
	return &out
}

// MaxPossibleTotal sums the maximum contribution of every configured game.
func (c *GameConfig) MaxPossibleTotal() int {
	total := 0
	for _, g := range c.Games {
		total += g.MaxContribution()
	}
	return total
}

// SortedGames lists definitions ordered by game number.
func (c *GameConfig) SortedGames() []GameDefinition {
	out := make([]GameDefinition, 0, len(c.Games))
	for _, number := range slices.Sorted(maps.Keys(c.Games)) {
		out = append(out, c.Games[number])
	}
	return out
}

// Validate checks every definition and the threshold invariant.
func (c *GameConfig) Validate() error {
	for number, g := range c.Games {
		if number != g.Number {
			return fmt.Errorf("%w: game keyed %d has number %d", ErrInvalidDefinition, number, g.Number)
		}
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return c.Thresholds.Validate(c.MaxPossibleTotal())
}

// DefaultGameConfig returns the seed configuration used when none is stored.
func DefaultGameConfig(now time.Time) *GameConfig {
	games := make(map[int]GameDefinition, DefaultGameCount)
	for n := 1; n <= DefaultGameCount; n++ {
		games[n] = GameDefinition{
			Number:      n,
			Name:        fmt.Sprintf("Game %d", n),
			Description: fmt.Sprintf("Description for Game %d", n),
			Kind:        ScoringPoints,
			MaxPoints:   DefaultMaxPoints,
			WinPoints:   DefaultWinPoints,
			LosePoints:  DefaultLosePoints,
			Active:      true,
		}
	}
	return &GameConfig{
		Games:       games,
		Thresholds:  GiftThresholds{GoldMin: DefaultGoldMin, SilverMin: DefaultSilverMin},
		Version:     1,
		LastUpdated: now,
	}
}
