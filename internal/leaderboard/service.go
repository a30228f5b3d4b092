// Package leaderboard ranks participants by total.
//
// Ranking is ordinal: every entry gets a distinct rank equal to its 1-based
// position. Equal totals are ordered by the earliest last update, then by
// participant id, so the same records always produce the same board.
package leaderboard

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/ledger"
	"github.com/osse101/ScoreLedger_Go/internal/metrics"
)

// Source is the read side of the ledger the board is computed from.
type Source interface {
	Standings(ctx context.Context) (*ledger.Standings, error)
	Revision() uint64
}

// ConfigSource supplies the current configuration version.
type ConfigSource interface {
	Snapshot() *domain.GameConfig
}

// Service is the read-only leaderboard view.
type Service interface {
	// Rank returns every scored participant in rank order.
	Rank(ctx context.Context) ([]domain.LeaderboardEntry, error)
	// Top returns at most limit entries; limit <= 0 means all.
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	RankOf(ctx context.Context, participantID string) (domain.ParticipantRank, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
}

type board struct {
	entries []domain.LeaderboardEntry
	index   map[string]int
	stats   domain.Statistics
}

type service struct {
	source  Source
	configs ConfigSource
	cache   *lru.Cache[string, *board]
}

// NewService creates the leaderboard view. A cacheSize of zero disables
// caching.
func NewService(source Source, configs ConfigSource, cacheSize int) (Service, error) {
	s := &service{source: source, configs: configs}
	if cacheSize > 0 {
		cache, err := lru.New[string, *board](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create leaderboard cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

func (s *service) Rank(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.Top(ctx, 0)
}

func (s *service) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	b, err := s.board(ctx)
	if err != nil {
		return nil, err
	}
	entries := b.entries
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return slices.Clone(entries), nil
}

func (s *service) RankOf(ctx context.Context, participantID string) (domain.ParticipantRank, error) {
	b, err := s.board(ctx)
	if err != nil {
		return domain.ParticipantRank{}, err
	}
	i, ok := b.index[participantID]
	if !ok {
		return domain.ParticipantRank{}, fmt.Errorf("%w: %s has no scores", domain.ErrParticipantNotFound, participantID)
	}

	n := len(b.entries)
	entry := b.entries[i]
	return domain.ParticipantRank{
		LeaderboardEntry: entry,
		FieldSize:        n,
		Percentile:       round2(float64(n-entry.Rank+1) / float64(n) * 100),
	}, nil
}

func (s *service) Statistics(ctx context.Context) (domain.Statistics, error) {
	b, err := s.board(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	stats := b.stats
	stats.TierCounts = maps.Clone(b.stats.TierCounts)
	return stats, nil
}

// board returns the cached board for the current ledger revision and
// configuration version, computing it on a miss.
func (s *service) board(ctx context.Context) (*board, error) {
	if s.cache != nil {
		key := cacheKey(s.source.Revision(), s.configs.Snapshot().Version)
		if b, ok := s.cache.Get(key); ok {
			metrics.LeaderboardCacheLookups.WithLabelValues(metrics.ResultHit).Inc()
			return b, nil
		}
		metrics.LeaderboardCacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
	}

	st, err := s.source.Standings(ctx)
	if err != nil {
		return nil, err
	}
	b := build(st)
	if s.cache != nil {
		s.cache.Add(cacheKey(st.Revision, st.ConfigVersion), b)
	}
	return b, nil
}

func cacheKey(revision uint64, configVersion int64) string {
	return fmt.Sprintf("%d:%d", revision, configVersion)
}

func build(st *ledger.Standings) *board {
	names := make(map[string]string, len(st.Participants))
	for _, p := range st.Participants {
		names[p.ID] = p.Name
	}

	records := slices.Clone(st.Records)
	slices.SortFunc(records, compareRecords)

	b := &board{
		entries: make([]domain.LeaderboardEntry, 0, len(records)),
		index:   make(map[string]int, len(records)),
		stats: domain.Statistics{
			TotalParticipants:  len(st.Participants),
			ScoredParticipants: len(records),
			TierCounts:         make(map[domain.Tier]int, len(domain.Tiers)),
		},
	}
	for _, tier := range domain.Tiers {
		b.stats.TierCounts[tier] = 0
	}

	sum := 0
	for i, rec := range records {
		b.entries = append(b.entries, domain.LeaderboardEntry{
			Rank:          i + 1,
			ParticipantID: rec.ParticipantID,
			Name:          names[rec.ParticipantID],
			Total:         rec.Total,
			Tier:          rec.Tier,
			LastUpdated:   rec.LastUpdated,
		})
		b.index[rec.ParticipantID] = i
		b.stats.TierCounts[rec.Tier]++
		sum += rec.Total
		b.stats.HighestScore = max(b.stats.HighestScore, rec.Total)
	}

	// Registered participants without a record sit in the lowest tier.
	if unscored := len(st.Participants) - len(records); unscored > 0 {
		b.stats.TierCounts[domain.Classify(0, st.Thresholds)] += unscored
	}
	if len(records) > 0 {
		b.stats.AverageScore = round2(float64(sum) / float64(len(records)))
	}
	return b
}

func compareRecords(a, b domain.ScoreRecord) int {
	if c := cmp.Compare(b.Total, a.Total); c != 0 {
		return c
	}
	if c := a.LastUpdated.Compare(b.LastUpdated); c != 0 {
		return c
	}
	return strings.Compare(a.ParticipantID, b.ParticipantID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
