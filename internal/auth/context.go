package auth

import (
	"context"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

type contextKey struct{}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext returns the caller on ctx, or the anonymous caller.
func CallerFromContext(ctx context.Context) domain.Caller {
	c, _ := ctx.Value(contextKey{}).(domain.Caller)
	return c
}
