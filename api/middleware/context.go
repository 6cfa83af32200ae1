package middleware

import (
	"context"

	"github.com/shoplane/shoplane-backend/pkg/auth"
)

type contextKey string

const ctxClaims contextKey = "claims"

// ClaimsFromContext returns the authenticated token claims, or nil.
func ClaimsFromContext(ctx context.Context) *auth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if claims, ok := ctx.Value(ctxClaims).(*auth.AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// WithClaims injects token claims into the context.
func WithClaims(ctx context.Context, claims *auth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
