package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

const testKey = "test-signing-key-that-is-long-enough-123"

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens(testKey, time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestNewTokens_RejectsShortKey(t *testing.T) {
	_, err := NewTokens("short", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssueAndResolve(t *testing.T) {
	tokens := newTestTokens(t)

	t.Run("operator", func(t *testing.T) {
		signed, expires, err := tokens.Issue("game2_op", false)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

		caller, err := tokens.Resolve(signed)
		require.NoError(t, err)
		assert.Equal(t, domain.Caller{Identity: "game2_op"}, caller)
	})

	t.Run("admin", func(t *testing.T) {
		signed, _, err := tokens.Issue(AdminIdentity, true)
		require.NoError(t, err)

		caller, err := tokens.Resolve(signed)
		require.NoError(t, err)
		assert.True(t, caller.IsAdmin)
	})

	t.Run("empty identity", func(t *testing.T) {
		_, _, err := tokens.Issue("", false)
		assert.ErrorIs(t, err, domain.ErrMissingCaller)
	})
}

func TestResolve_Rejects(t *testing.T) {
	tokens := newTestTokens(t)
	valid, _, err := tokens.Issue("game1_op", false)
	require.NoError(t, err)

	other, err := NewTokens(strings.Repeat("x", MinKeyLength), time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue("game1_op", true)
	require.NoError(t, err)

	expiredIssuer := newTestTokens(t)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIssuer.Issue("game1_op", false)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		IsAdmin:          true,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: TokenIssuer, Subject: "mallory"},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"wrong key", foreign},
		{"expired", expired},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Resolve(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidCredential)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestCallerContext(t *testing.T) {
	ctx := context.Background()
	assert.True(t, CallerFromContext(ctx).Anonymous())

	ctx = WithCaller(ctx, domain.Caller{Identity: "game3_op"})
	assert.Equal(t, "game3_op", CallerFromContext(ctx).Identity)
}
