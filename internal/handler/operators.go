package handler

import (
	"net/http"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/operator"
)

// CreateOperatorRequest assigns an operator to a game. An empty credential
// asks the server to generate one.
type CreateOperatorRequest struct {
	GameNumber int    `json:"game_number" validate:"required,min=1"`
	Name       string `json:"name" validate:"max=100,excludesall=\x00\n\r\t"`
	Credential string `json:"credential" validate:"omitempty,min=8,max=72"`
}

// BulkCreateOperatorsRequest lists the games that need an operator.
type BulkCreateOperatorsRequest struct {
	GameNumbers []int `json:"game_numbers" validate:"required,min=1,max=100,dive,min=1"`
}

// OperatorHandler manages operator assignments.
type OperatorHandler struct {
	svc operator.Service
}

// NewOperatorHandler creates a new OperatorHandler
func NewOperatorHandler(svc operator.Service) *OperatorHandler {
	return &OperatorHandler{svc: svc}
}

// HandleListOperators lists every assignment
// @Summary List operators
// @Tags operators
// @Produce json
// @Success 200 {array} domain.OperatorAssignment
// @Failure 403 {object} ErrorResponse
// @Router /operators [get]
func (h *OperatorHandler) HandleListOperators(w http.ResponseWriter, r *http.Request) {
	ops, err := h.svc.ListOperators(r.Context())
	if err != nil {
		respondServiceError(w, r, "List operators", err)
		return
	}
	if ops == nil {
		ops = []domain.OperatorAssignment{}
	}
	respondJSON(w, http.StatusOK, ops)
}

// HandleCreateOperator assigns an operator to a game
// @Summary Create operator
// @Description The plaintext credential is returned only in this response
// @Tags operators
// @Accept json
// @Produce json
// @Param request body CreateOperatorRequest true "Operator"
// @Success 201 {object} domain.OperatorCredential
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /operators [post]
func (h *OperatorHandler) HandleCreateOperator(w http.ResponseWriter, r *http.Request) {
	var req CreateOperatorRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create operator"); err != nil {
		return
	}
	cred, err := h.svc.CreateOperator(r.Context(), req.GameNumber, req.Name, req.Credential)
	if err != nil {
		respondServiceError(w, r, "Create operator", err)
		return
	}
	logger.FromContext(r.Context()).Info("Operator created", "game", cred.GameNumber, "identity", cred.Identity)
	respondJSON(w, http.StatusCreated, cred)
}

// HandleBulkCreateOperators creates operators for several games
// @Summary Bulk create operators
// @Tags operators
// @Accept json
// @Produce json
// @Param request body BulkCreateOperatorsRequest true "Games"
// @Success 200 {array} operator.BulkResult
// @Failure 400 {object} ErrorResponse
// @Router /operators/bulk [post]
func (h *OperatorHandler) HandleBulkCreateOperators(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateOperatorsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Bulk create operators"); err != nil {
		return
	}
	respondJSON(w, http.StatusOK, h.svc.BulkCreateOperators(r.Context(), req.GameNumbers))
}

// HandleRevokeOperator removes the operator of a game
// @Summary Revoke operator
// @Tags operators
// @Produce json
// @Param game path int true "Game number"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /operators/{game} [delete]
func (h *OperatorHandler) HandleRevokeOperator(w http.ResponseWriter, r *http.Request) {
	game, ok := getIntPathParam(w, r, "game")
	if !ok {
		return
	}
	if err := h.svc.Revoke(r.Context(), game); err != nil {
		respondServiceError(w, r, "Revoke operator", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgOperatorRevoked})
}

// HandleResetCredential issues a new credential for one game's operator
// @Summary Reset operator credential
// @Tags operators
// @Produce json
// @Param game path int true "Game number"
// @Success 200 {object} domain.OperatorCredential
// @Failure 404 {object} ErrorResponse
// @Router /operators/{game}/reset [post]
func (h *OperatorHandler) HandleResetCredential(w http.ResponseWriter, r *http.Request) {
	game, ok := getIntPathParam(w, r, "game")
	if !ok {
		return
	}
	cred, err := h.svc.ResetCredential(r.Context(), game)
	if err != nil {
		respondServiceError(w, r, "Reset credential", err)
		return
	}
	respondJSON(w, http.StatusOK, cred)
}

// HandleResetAllCredentials issues new credentials for every operator
// @Summary Reset all operator credentials
// @Tags operators
// @Produce json
// @Success 200 {array} operator.BulkResult
// @Router /operators/reset-all [post]
func (h *OperatorHandler) HandleResetAllCredentials(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.ResetAllCredentials(r.Context())
	if err != nil {
		respondServiceError(w, r, "Reset all credentials", err)
		return
	}
	if results == nil {
		results = []operator.BulkResult{}
	}
	respondJSON(w, http.StatusOK, results)
}
