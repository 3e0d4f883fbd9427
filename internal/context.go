package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// Actor is the authenticated caller as resolved by the auth middleware:
// account identity plus the currently-open role names.
type Actor struct {
	UserID   uuid.UUID `json:"user_id"`
	StaffID  uuid.UUID `json:"staff_id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

func (a *Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *Actor) HasAnyRole(roles ...string) bool {
	for _, required := range roles {
		if a.HasRole(required) {
			return true
		}
	}
	return false
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	actor, ok := ctx.Value(ContextActorKey).(*Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
