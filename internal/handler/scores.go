package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ScoreLedger_Go/internal/auth"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/ledger"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
)

// SubmitScoreRequest records one game result. Value is the raw submission:
// points for points games, 1 (win) or 0 (lose) for win/lose games.
type SubmitScoreRequest struct {
	ParticipantID string `json:"participant_id" validate:"required,max=100"`
	GameNumber    int    `json:"game_number" validate:"required,min=1"`
	Value         *int   `json:"value" validate:"required"`
}

// ClearScoresResponse reports how many records were removed.
type ClearScoresResponse struct {
	Message string `json:"message"`
	Cleared int    `json:"cleared"`
}

// ScoreHandler serves the scoring ledger.
type ScoreHandler struct {
	svc ledger.Service
}

// NewScoreHandler creates a new ScoreHandler
func NewScoreHandler(svc ledger.Service) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

// HandleSubmitScore records a score for the caller's game
// @Summary Submit score
// @Description Operators may only score their assigned game; admins may score any game
// @Tags scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitScoreRequest true "Score"
// @Success 200 {object} domain.ScoreRecord
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /scores [post]
func (h *ScoreHandler) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req SubmitScoreRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Submit score"); err != nil {
		return
	}

	caller := auth.CallerFromContext(r.Context())
	rec, err := h.svc.SubmitScore(r.Context(), caller, req.ParticipantID, req.GameNumber, *req.Value)
	if err != nil {
		respondServiceError(w, r, "Submit score", err)
		return
	}

	logger.FromContext(r.Context()).Debug("Score submitted",
		"participant_id", req.ParticipantID, "game", req.GameNumber, "total", rec.Total)
	respondJSON(w, http.StatusOK, rec)
}

// HandleListScores lists score records
// @Summary List scores
// @Tags scores
// @Produce json
// @Param tier query string false "Tier (Gold, Silver, Participation)"
// @Param ids query string false "Comma-separated participant IDs"
// @Success 200 {array} domain.ScoreRecord
// @Failure 400 {object} ErrorResponse
// @Router /scores [get]
func (h *ScoreHandler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ScoreFilter{}
	if raw := GetOptionalQueryParam(r, "tier", ""); raw != "" {
		tier, ok := parseTier(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidTier)
			return
		}
		filter.Tier = tier
	}
	if ids := GetOptionalQueryParam(r, "ids", ""); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.ParticipantIDs = append(filter.ParticipantIDs, id)
			}
		}
	}

	records, err := h.svc.ListScores(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "List scores", err)
		return
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

// HandleGetScore returns one participant's record
// @Summary Get score
// @Tags scores
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} domain.ScoreRecord
// @Failure 404 {object} ErrorResponse
// @Router /scores/{id} [get]
func (h *ScoreHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetScore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "Get score", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// HandleGameScores lists every participant's value for one game
// @Summary Game scores
// @Tags scores
// @Produce json
// @Param number path int true "Game number"
// @Success 200 {array} domain.GameScoreRow
// @Failure 404 {object} ErrorResponse
// @Router /games/{number}/scores [get]
func (h *ScoreHandler) HandleGameScores(w http.ResponseWriter, r *http.Request) {
	number, ok := getIntPathParam(w, r, "number")
	if !ok {
		return
	}
	rows, err := h.svc.GameScores(r.Context(), number)
	if err != nil {
		respondServiceError(w, r, "Game scores", err)
		return
	}
	if rows == nil {
		rows = []domain.GameScoreRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// HandleClearScores removes every score record
// @Summary Clear all scores
// @Tags scores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ClearScoresResponse
// @Failure 403 {object} ErrorResponse
// @Router /scores [delete]
func (h *ScoreHandler) HandleClearScores(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.svc.ClearAllScores(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, r, "Clear scores", err)
		return
	}
	logger.FromContext(r.Context()).Info("Scores cleared", "count", cleared)
	respondJSON(w, http.StatusOK, ClearScoresResponse{Message: MsgScoresCleared, Cleared: cleared})
}

func parseTier(raw string) (domain.Tier, bool) {
	idx := slices.IndexFunc(domain.Tiers, func(t domain.Tier) bool {
		return strings.EqualFold(string(t), raw)
	})
	if idx < 0 {
		return "", false
	}
	return domain.Tiers[idx], true
}
