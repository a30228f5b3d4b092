package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// Claims carried by every caller token. The subject is the caller identity.
type Claims struct {
	IsAdmin bool `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and resolves HS256 caller tokens.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens creates a token issuer/resolver keyed by signingKey.
func NewTokens(signingKey string, ttl time.Duration) (*Tokens, error) {
	if len(signingKey) < MinKeyLength {
		return nil, fmt.Errorf("%w: signing key must be at least %d bytes", domain.ErrInvalidInput, MinKeyLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{key: []byte(signingKey), ttl: ttl, now: time.Now}, nil
}

// Issue mints a token for identity.
func (t *Tokens) Issue(identity string, isAdmin bool) (string, time.Time, error) {
	if identity == "" {
		return "", time.Time{}, domain.ErrMissingCaller
	}
	now := t.now()
	expires := now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Resolve verifies a token and returns the caller it names.
func (t *Tokens) Resolve(tokenString string) (domain.Caller, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, fmt.Errorf("%w: token expired", domain.ErrInvalidCredential)
		}
		return domain.Caller{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	if claims.Subject == "" {
		return domain.Caller{}, domain.ErrMissingCaller
	}
	return domain.Caller{Identity: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}
