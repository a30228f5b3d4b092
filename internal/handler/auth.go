package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/auth"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/operator"
)

// APIKeyHeader carries the admin API key.
const APIKeyHeader = "X-API-Key"

// OperatorLoginRequest exchanges an operator credential for a token.
type OperatorLoginRequest struct {
	Identity   string `json:"identity" validate:"required,max=100"`
	Credential string `json:"credential" validate:"required,max=72"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Identity   string    `json:"identity"`
	GameNumber int       `json:"game_number,omitempty"`
	IsAdmin    bool      `json:"is_admin"`
}

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	operators operator.Service
	tokens    *auth.Tokens
	apiKey    string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(operators operator.Service, tokens *auth.Tokens, apiKey string) *AuthHandler {
	return &AuthHandler{operators: operators, tokens: tokens, apiKey: apiKey}
}

// HandleOperatorLogin verifies an operator credential and returns a token
// @Summary Operator login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OperatorLoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/operator-login [post]
func (h *AuthHandler) HandleOperatorLogin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req OperatorLoginRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Operator login"); err != nil {
		return
	}

	assignment, err := h.operators.VerifyCredential(r.Context(), req.Identity, req.Credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			log.Warn("Operator login rejected", "identity", req.Identity)
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondServiceError(w, r, "Operator login", err)
		return
	}

	token, expires, err := h.tokens.Issue(assignment.Identity, false)
	if err != nil {
		respondServiceError(w, r, "Operator login", err)
		return
	}

	log.Info("Operator logged in", "identity", assignment.Identity, "game", assignment.GameNumber)
	respondJSON(w, http.StatusOK, TokenResponse{
		Token:      token,
		ExpiresAt:  expires,
		Identity:   assignment.Identity,
		GameNumber: assignment.GameNumber,
	})
}

// HandleAdminToken exchanges the API key for an admin token
// @Summary Admin token
// @Tags auth
// @Produce json
// @Param X-API-Key header string true "API key"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/admin-token [post]
func (h *AuthHandler) HandleAdminToken(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(APIKeyHeader)
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		logger.FromContext(r.Context()).Warn("Admin token rejected")
		respondError(w, http.StatusUnauthorized, ErrMsgInvalidAPIKey)
		return
	}

	token, expires, err := h.tokens.Issue(auth.AdminIdentity, true)
	if err != nil {
		respondServiceError(w, r, "Admin token", err)
		return
	}
	respondJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: expires,
		Identity:  auth.AdminIdentity,
		IsAdmin:   true,
	})
}
