package domain

import (
	"maps"
	"time"
)

// Tier is the gift category derived from a participant's total.
type Tier string

const (
	TierGold          Tier = "Gold"
	TierSilver        Tier = "Silver"
	TierParticipation Tier = "Participation"
)

// Tiers lists every tier from highest to lowest.
var Tiers = []Tier{TierGold, TierSilver, TierParticipation}

// Classify maps a total to its tier. Both thresholds are inclusive lower bounds.
func Classify(total int, t GiftThresholds) Tier {
	switch {
	case total >= t.GoldMin:
		return TierGold
	case total >= t.SilverMin:
		return TierSilver
	default:
		return TierParticipation
	}
}

// OrphanPolicy controls whether values for removed games count toward totals.
type OrphanPolicy string

const (
	OrphanKeep    OrphanPolicy = "keep"
	OrphanExclude OrphanPolicy = "exclude"
)

// Valid reports whether p is a known policy.
func (p OrphanPolicy) Valid() bool {
	return p == OrphanKeep || p == OrphanExclude
}

// ScoreRecord holds one participant's per-game values.
// Total and Tier are derived on read and never persisted.
type ScoreRecord struct {
	ParticipantID string      `json:"participant_id"`
	Scores        map[int]int `json:"scores"`
	Total         int         `json:"total"`
	Tier          Tier        `json:"tier"`
	Version       int64       `json:"version"`
	CreatedAt     time.Time   `json:"created_at"`
	LastUpdated   time.Time   `json:"last_updated"`
}

// Value returns the stored value for a game, or 0 when unscored.
func (r *ScoreRecord) Value(game int) int {
	if r == nil {
		return 0
	}
	return r.Scores[game]
}

// Clone returns a deep copy.
func (r *ScoreRecord) Clone() *ScoreRecord {
	out := *r
	out.Scores = maps.Clone(r.Scores)
	if out.Scores == nil {
		out.Scores = make(map[int]int)
	}
	return &out
}

// GameScoreRow is one participant's standing within a single game.
type GameScoreRow struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Value         int    `json:"value"`
	Scored        bool   `json:"scored"`
	Total         int    `json:"total"`
}
