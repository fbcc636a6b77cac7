package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/rbac"
)

type RoleSource interface {
	Role(ctx context.Context, userID int64) (string, error)
}

// AttachRoleFromDB replaces the token's role with the one stored for the
// caller. A deleted user is rejected. allowClaimFallback keeps the claim
// when the store is unreachable.
func AttachRoleFromDB(roles RoleSource, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller, ok := rbac.CallerFromContext(ctx)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			role, err := roles.Role(ctx, caller.UserID)
			switch {
			case err == nil:
				caller.Role = role
				next.ServeHTTP(w, r.WithContext(rbac.WithCaller(ctx, caller)))
			case errors.Is(err, apperr.ErrNotFound):
				writeError(w, http.StatusUnauthorized, "user no longer exists")
			case allowClaimFallback && caller.Role != "":
				next.ServeHTTP(w, r)
			default:
				writeError(w, http.StatusServiceUnavailable, "cannot resolve role")
			}
		})
	}
}
