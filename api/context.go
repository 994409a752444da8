package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/services"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds the verified token claims to the context
func ctxWithClaims(ctx context.Context, claims services.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the verified token claims from the context
func ctxGetClaims(ctx context.Context) (services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(services.Claims)
	return claims, ok
}

// ctxGetSubject retrieves the id of the authenticated user, or 0 when there is none
func ctxGetSubject(ctx context.Context) uint {
	claims, _ := ctxGetClaims(ctx)
	return claims.Subject
}
