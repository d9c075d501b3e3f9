package utils

import (
	"context"

	"CollectPortal/internal/session"
)

type contextKey string

const SessionKey contextKey = "session"

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func GetSessionFromCtx(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return s
	}
	return nil
}

// ClientScopeFromCtx returns the client id the request may act on. Admin
// sessions get the empty scope, which covers every client.
func ClientScopeFromCtx(ctx context.Context) (string, bool) {
	s := GetSessionFromCtx(ctx)
	if s == nil {
		return "", false
	}
	if s.IsAdmin() {
		return "", true
	}
	return s.ClientID, true
}
