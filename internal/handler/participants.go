package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/ledger"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
)

// RegisterParticipantRequest registers an attendee.
type RegisterParticipantRequest struct {
	ID    string `json:"id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Name  string `json:"name" validate:"required,max=200,excludesall=\x00\n\r\t"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

// BulkDeleteRequest lists participants to delete.
type BulkDeleteRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,max=500,dive,required,max=100"`
}

// ParticipantHandler manages participant registration.
type ParticipantHandler struct {
	svc ledger.Service
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(svc ledger.Service) *ParticipantHandler {
	return &ParticipantHandler{svc: svc}
}

// HandleRegister registers a participant
// @Summary Register participant
// @Tags participants
// @Accept json
// @Produce json
// @Param request body RegisterParticipantRequest true "Participant"
// @Success 201 {object} domain.Participant
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /participants [post]
func (h *ParticipantHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterParticipantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register participant"); err != nil {
		return
	}
	p, err := h.svc.RegisterParticipant(r.Context(), domain.Participant{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondServiceError(w, r, "Register participant", err)
		return
	}
	logger.FromContext(r.Context()).Info("Participant registered", "participant_id", p.ID)
	respondJSON(w, http.StatusCreated, p)
}

// HandleList lists participants, optionally filtered
// @Summary List participants
// @Description Case-insensitive substring search on id or name
// @Tags participants
// @Produce json
// @Param search query string false "Search text"
// @Success 200 {array} domain.Participant
// @Router /participants [get]
func (h *ParticipantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListParticipants(r.Context(), GetOptionalQueryParam(r, "search", ""))
	if err != nil {
		respondServiceError(w, r, "List participants", err)
		return
	}
	if list == nil {
		list = []domain.Participant{}
	}
	respondJSON(w, http.StatusOK, list)
}

// HandleGet returns one participant
// @Summary Get participant
// @Tags participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} domain.Participant
// @Failure 404 {object} ErrorResponse
// @Router /participants/{id} [get]
func (h *ParticipantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "Get participant", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// HandleDelete removes a participant and their score record
// @Summary Delete participant
// @Tags participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /participants/{id} [delete]
func (h *ParticipantHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteParticipant(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, "Delete participant", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgParticipantDeleted})
}

// HandleBulkDelete removes several participants
// @Summary Bulk delete participants
// @Tags participants
// @Accept json
// @Produce json
// @Param request body BulkDeleteRequest true "Participant IDs"
// @Success 200 {array} ledger.BulkDeleteResult
// @Failure 400 {object} ErrorResponse
// @Router /participants/bulk-delete [post]
func (h *ParticipantHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Bulk delete participants"); err != nil {
		return
	}
	respondJSON(w, http.StatusOK, h.svc.DeleteParticipants(r.Context(), req.ParticipantIDs))
}
