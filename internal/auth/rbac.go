package auth

import (
	"log/slog"
	"net/http"

	"github.com/lihess/lihess-backend/internal"
)

// RoleGuard gates routes by the actor's currently open role assignments.
type RoleGuard struct {
	logger *slog.Logger
}

func NewRoleGuard(logger *slog.Logger) *RoleGuard {
	return &RoleGuard{logger: logger}
}

// Require allows the request through when the actor holds any of the given
// roles. Admin always passes.
func (g *RoleGuard) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok || actor == nil {
				g.logger.Warn("role check failed: actor not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !actor.HasRole(internal.RoleAdmin) && !actor.HasAnyRole(roles...) {
				g.logger.Warn("access denied: missing required role",
					"user_id", actor.UserID,
					"required_roles", roles,
					"actor_roles", actor.Roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *RoleGuard) RequireAdmin() func(http.Handler) http.Handler {
	return g.Require(internal.RoleAdmin)
}

func (g *RoleGuard) RequireHR() func(http.Handler) http.Handler {
	return g.Require(internal.RoleHR)
}

func (g *RoleGuard) RequireApprover() func(http.Handler) http.Handler {
	return g.Require(internal.RoleApprover)
}
