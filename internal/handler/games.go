package handler

import (
	"net/http"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/gameconfig"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
)

// GameRequest is the body for creating or replacing a game definition.
// Number is only read on create; zero picks the next free number.
type GameRequest struct {
	Number      int    `json:"number" validate:"gte=0"`
	Name        string `json:"name" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Description string `json:"description" validate:"max=500"`
	Kind        string `json:"kind" validate:"required,scoring_kind"`
	MaxPoints   int    `json:"max_points" validate:"gte=0"`
	WinPoints   int    `json:"win_points" validate:"gte=0"`
	LosePoints  int    `json:"lose_points" validate:"gte=0"`
	Active      *bool  `json:"active"`
}

func (req GameRequest) definition(number int) domain.GameDefinition {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return domain.GameDefinition{
		Number:      number,
		Name:        req.Name,
		Description: req.Description,
		Kind:        domain.ScoringKind(req.Kind),
		MaxPoints:   req.MaxPoints,
		WinPoints:   req.WinPoints,
		LosePoints:  req.LosePoints,
		Active:      active,
	}
}

// ThresholdsRequest is the body for PUT /thresholds.
type ThresholdsRequest struct {
	GoldMin   int `json:"gold_min" validate:"gte=0"`
	SilverMin int `json:"silver_min" validate:"gte=0"`
}

// ConfigResponse is the full configuration view.
type ConfigResponse struct {
	Games      []domain.GameDefinition `json:"games"`
	Thresholds domain.GiftThresholds   `json:"thresholds"`
	MaxTotal   int                     `json:"max_total"`
	Version    int64                   `json:"version"`
}

// GameHandler serves the game configuration.
type GameHandler struct {
	svc gameconfig.Service
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(svc gameconfig.Service) *GameHandler {
	return &GameHandler{svc: svc}
}

// HandleGetConfig returns every game and the thresholds
// @Summary Get configuration
// @Description List every game definition with the current gift thresholds
// @Tags games
// @Produce json
// @Param active query bool false "Only active games"
// @Success 200 {object} ConfigResponse
// @Router /games [get]
func (h *GameHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.Snapshot()
	games := cfg.SortedGames()
	if r.URL.Query().Get("active") == "true" {
		games = h.svc.ListActiveGames()
	}
	respondJSON(w, http.StatusOK, ConfigResponse{
		Games:      games,
		Thresholds: cfg.Thresholds,
		MaxTotal:   cfg.MaxPossibleTotal(),
		Version:    cfg.Version,
	})
}

// HandleGetGame returns a single game
// @Summary Get game
// @Tags games
// @Produce json
// @Param number path int true "Game number"
// @Success 200 {object} domain.GameDefinition
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{number} [get]
func (h *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	number, ok := getIntPathParam(w, r, "number")
	if !ok {
		return
	}
	game, err := h.svc.GetGame(number)
	if err != nil {
		respondServiceError(w, r, "Get game", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// HandleAddGame adds a game under the next free number
// @Summary Add game
// @Tags games
// @Accept json
// @Produce json
// @Param request body GameRequest true "Game definition"
// @Success 201 {object} domain.GameDefinition
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /games [post]
func (h *GameHandler) HandleAddGame(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Add game"); err != nil {
		return
	}
	game, err := h.svc.AddGame(r.Context(), req.definition(req.Number))
	if err != nil {
		respondServiceError(w, r, "Add game", err)
		return
	}
	logger.FromContext(r.Context()).Info("Game added", "game", game.Number)
	respondJSON(w, http.StatusCreated, game)
}

// HandleUpdateGame replaces a game definition
// @Summary Update game
// @Tags games
// @Accept json
// @Produce json
// @Param number path int true "Game number"
// @Param request body GameRequest true "Game definition"
// @Success 200 {object} domain.GameDefinition
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{number} [put]
func (h *GameHandler) HandleUpdateGame(w http.ResponseWriter, r *http.Request) {
	number, ok := getIntPathParam(w, r, "number")
	if !ok {
		return
	}
	var req GameRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update game"); err != nil {
		return
	}
	game, err := h.svc.UpdateGame(r.Context(), number, req.definition(number))
	if err != nil {
		respondServiceError(w, r, "Update game", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// HandleRemoveGame deletes a game definition
// @Summary Remove game
// @Tags games
// @Produce json
// @Param number path int true "Game number"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{number} [delete]
func (h *GameHandler) HandleRemoveGame(w http.ResponseWriter, r *http.Request) {
	number, ok := getIntPathParam(w, r, "number")
	if !ok {
		return
	}
	if err := h.svc.RemoveGame(r.Context(), number); err != nil {
		respondServiceError(w, r, "Remove game", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGameRemoved})
}

// HandleToggleGame flips a game's active flag
// @Summary Toggle game
// @Tags games
// @Produce json
// @Param number path int true "Game number"
// @Success 200 {object} domain.GameDefinition
// @Failure 404 {object} ErrorResponse
// @Router /games/{number}/toggle [post]
func (h *GameHandler) HandleToggleGame(w http.ResponseWriter, r *http.Request) {
	number, ok := getIntPathParam(w, r, "number")
	if !ok {
		return
	}
	game, err := h.svc.ToggleGame(r.Context(), number)
	if err != nil {
		respondServiceError(w, r, "Toggle game", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// HandleSetThresholds replaces the gift thresholds
// @Summary Set thresholds
// @Tags games
// @Accept json
// @Produce json
// @Param request body ThresholdsRequest true "Thresholds"
// @Success 200 {object} domain.GiftThresholds
// @Failure 400 {object} ErrorResponse
// @Router /thresholds [put]
func (h *GameHandler) HandleSetThresholds(w http.ResponseWriter, r *http.Request) {
	var req ThresholdsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set thresholds"); err != nil {
		return
	}
	thresholds, err := h.svc.SetThresholds(r.Context(), req.GoldMin, req.SilverMin)
	if err != nil {
		respondServiceError(w, r, "Set thresholds", err)
		return
	}
	respondJSON(w, http.StatusOK, thresholds)
}
