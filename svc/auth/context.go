package auth

import (
	"context"

	"github.com/cargohub/authcore/pkg/token"
)

type sessionContextKey struct{}

// SetSessionToContext stores the verified session for handlers further down the chain.
func SetSessionToContext(ctx context.Context, s token.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session stored by SetSessionToContext.
func SessionFromContext(ctx context.Context) (token.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(token.Session)
	return s, ok
}
