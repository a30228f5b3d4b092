package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/leaderboard"
)

// MaxLeaderboardLimit caps ?limit on the leaderboard.
const MaxLeaderboardLimit = 1000

// LeaderboardHandler serves rankings and statistics.
type LeaderboardHandler struct {
	svc leaderboard.Service
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(svc leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// HandleLeaderboard returns the ranked participants
// @Summary Leaderboard
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Maximum entries (default all)"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 400 {object} ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _, ok := getOptionalIntQueryParam(w, r, "limit")
	if !ok {
		return
	}
	limit = min(max(limit, 0), MaxLeaderboardLimit)

	entries, err := h.svc.Top(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "Leaderboard", err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// HandleRankOf returns one participant's position
// @Summary Participant rank
// @Tags leaderboard
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} domain.ParticipantRank
// @Failure 404 {object} ErrorResponse
// @Router /leaderboard/{id} [get]
func (h *LeaderboardHandler) HandleRankOf(w http.ResponseWriter, r *http.Request) {
	rank, err := h.svc.RankOf(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "Rank of participant", err)
		return
	}
	respondJSON(w, http.StatusOK, rank)
}

// HandleStatistics returns event-wide statistics
// @Summary Statistics
// @Tags leaderboard
// @Produce json
// @Success 200 {object} domain.Statistics
// @Router /stats [get]
func (h *LeaderboardHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, r, "Statistics", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
