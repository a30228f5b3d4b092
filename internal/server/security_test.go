package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ScoreLedger_Go/internal/auth"
	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens(testSigningKey, time.Hour)
	require.NoError(t, err)
	return tokens
}

// echoCaller writes the resolved caller identity as the body.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(caller.Identity))
})

func TestCallerMiddleware(t *testing.T) {
	tokens := newTestTokens(t)
	opToken, _, err := tokens.Issue("game1_op", false)
	require.NoError(t, err)

	other, err := auth.NewTokens("fedcba9876543210fedcba9876543210", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue("game1_op", false)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
		expectedBody   string
	}{
		{"Valid token", "Bearer " + opToken, http.StatusOK, "game1_op"},
		{"No header is anonymous", "", http.StatusOK, ""},
		{"Wrong scheme", "Basic " + opToken, http.StatusUnauthorized, ErrMsgUnauthorized},
		{"Garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, ErrMsgUnauthorized},
		{"Signed by another key", "Bearer " + foreign, http.StatusUnauthorized, ErrMsgUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := NewSuspiciousActivityDetector()
			handler := CallerMiddleware(tokens, nil, detector)(echoCaller)

			req := httptest.NewRequest("GET", "/api/v1/scores", nil)
			if tt.authorization != "" {
				req.Header.Set(HeaderAuthorization, tt.authorization)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestCallerMiddleware_RecordsFailedAuth(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	handler := CallerMiddleware(newTestTokens(t), nil, detector)(echoCaller)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	req.Header.Set(HeaderAuthorization, "Bearer nope")
	for range 3 {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, 3, detector.failedAuthByIP["10.0.0.7"])
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		caller         domain.Caller
		expectedStatus int
	}{
		{"Admin", domain.Caller{Identity: "admin", IsAdmin: true}, http.StatusOK},
		{"Operator", domain.Caller{Identity: "game1_op"}, http.StatusForbidden},
		{"Anonymous", domain.Caller{}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/api/v1/scores", nil)
			req = req.WithContext(auth.WithCaller(req.Context(), tt.caller))
			rec := httptest.NewRecorder()

			RequireAdmin(echoCaller).ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequireCaller(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/scores", nil)
	rec := httptest.NewRecorder()
	RequireCaller(echoCaller).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(auth.WithCaller(req.Context(), domain.Caller{Identity: "game2_op"}))
	rec = httptest.NewRecorder()
	RequireCaller(echoCaller).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "game2_op", rec.Body.String())
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct", "1.2.3.4:80", "", nil, "1.2.3.4"},
		{"untrusted proxy ignored", "1.2.3.4:80", "9.9.9.9", nil, "1.2.3.4"},
		{"trusted proxy rightmost hop", "10.0.0.1:80", "9.9.9.9, 8.8.8.8", []string{"10.0.0.1"}, "8.8.8.8"},
		{"unparseable remote", "garbage", "", nil, "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}
