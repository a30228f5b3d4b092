package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
)

// Generic HTTP error messages for client responses.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidPathParam      = "Invalid %s path parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
	ErrMsgInvalidAPIKey         = "Invalid API key"
	ErrMsgInvalidToken          = "Invalid or expired token"
	ErrMsgInvalidTier           = "Invalid tier: must be one of Gold, Silver, Participation"
)

// User-facing messages derived from service errors.
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgUnavailableError   = "Storage is temporarily unavailable. Please try again."
	ErrMsgRetryError         = "The record changed while saving. Please try again."
)

// Success messages
const (
	MsgGameRemoved        = "Game removed"
	MsgOperatorRevoked    = "Operator revoked"
	MsgParticipantDeleted = "Participant deleted"
	MsgScoresCleared      = "All scores cleared"
)

// mapServiceError maps a service error onto an HTTP status and a message safe
// to show the caller. Validation, authorization, not-found and conflict errors
// carry their own text; storage errors never do.
func mapServiceError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrStaleConfig), errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrParticipantBusy):
		return http.StatusConflict, ErrMsgRetryError
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrPersistenceTimeout):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}

// respondServiceError logs err and writes the mapped response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}
	respondError(w, status, msg)
}
