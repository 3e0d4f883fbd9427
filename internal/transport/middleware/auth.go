package middleware

import (
	"net/http"

	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/pkg/logger"
)

// ActorContext enriches the request logger with the authenticated actor.
// It must run after the auth middleware has resolved the actor.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := internal.ActorFromContext(r.Context()); ok && actor != nil {
			ctx := logger.With(r.Context(), "username", actor.Username)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
