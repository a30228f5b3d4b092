package handler

import (
	"net/http"

	"github.com/osse101/ScoreLedger_Go/internal/auditlog"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	svc auditlog.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(svc auditlog.Service) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// HandleQuery returns audit entries, newest first
// @Summary Audit log
// @Tags audit
// @Produce json
// @Param game query int false "Game number"
// @Param operator query string false "Operator identity"
// @Param participant query string false "Participant ID"
// @Param limit query int false "Maximum entries (default 50, max 1000)"
// @Success 200 {array} domain.AuditEntry
// @Failure 400 {object} ErrorResponse
// @Router /audit [get]
func (h *AuditHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var filter domain.AuditFilter

	game, hasGame, ok := getOptionalIntQueryParam(w, r, "game")
	if !ok {
		return
	}
	if hasGame {
		filter.GameNumber = &game
	}
	limit, _, ok := getOptionalIntQueryParam(w, r, "limit")
	if !ok {
		return
	}
	filter.Limit = limit

	if op := r.URL.Query().Get("operator"); op != "" {
		filter.OperatorIdentity = &op
	}
	if pid := r.URL.Query().Get("participant"); pid != "" {
		filter.ParticipantID = &pid
	}

	entries, err := h.svc.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "Audit query", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
