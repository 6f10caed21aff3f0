// Package rbac gates routes on the caller's current role.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// RoleAdmin is the role value that grants admin routes.
const RoleAdmin = 1

// RoleLookup returns the stored role of a user. A deleted user must be
// reported as ok=false with a nil error.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (role int, ok bool, err error)
}

// RoleLookupFunc adapts a function to RoleLookup.
type RoleLookupFunc func(ctx context.Context, userID string) (int, bool, error)

func (f RoleLookupFunc) RoleOf(ctx context.Context, userID string) (int, bool, error) {
	return f(ctx, userID)
}

// IsAdmin allows the request only when the signed-in user is currently an
// admin. The role is read from the store on every request; a role in the
// token is never trusted. Must run after middleware.RequireSignIn.
func IsAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := middleware.UserIDFromCtx(r.Context())
			if !ok {
				deny(w)
				return
			}

			role, found, err := lookup.RoleOf(r.Context(), userID)
			if err != nil {
				logger.WithCtx(r.Context()).Error("admin check failed", "user_id", userID, "error", err)
				response.Fail(w, http.StatusUnauthorized, "Error in admin middleware", err)
				return
			}
			if !found || role != RoleAdmin {
				deny(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter) {
	response.Fail(w, http.StatusUnauthorized, "UnAuthorized Access", nil)
}
