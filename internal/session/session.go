// Package session threads the acting identity and the session correlation id
// through context instead of keeping them in ambient global state.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Session identifies who is acting and under which client session. The
// correlation id is generated once per client session (the mobile client sends
// it with every request); server-side callers without one get a fresh id.
type Session struct {
	ActorID       *int64
	CorrelationID string
}

type ctxKey struct{}

// New builds a session from the caller-supplied correlation id, minting one
// when the caller did not send any.
func New(actorID *int64, correlationID string) Session {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	return Session{
		ActorID:       actorID,
		CorrelationID: correlationID,
	}
}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the session from the context. Contexts without one
// yield a zero session: nil actor, empty correlation id. Callers record such
// actions as system actions.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(ctxKey{}).(Session)

	return s
}
