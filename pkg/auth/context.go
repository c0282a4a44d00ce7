package auth

import (
	"context"

	"github.com/acadia-dev/acadia/pkg/api"
)

// principalKey is a private type for the principal context key.
type principalKey struct{}

// SetPrincipal stores the authenticated principal in the context.
func SetPrincipal(ctx context.Context, p *api.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal. Returns
// nil on public (unauthenticated) routes.
func PrincipalFromContext(ctx context.Context) *api.Principal {
	if p, ok := ctx.Value(principalKey{}).(*api.Principal); ok {
		return p
	}
	return nil
}
