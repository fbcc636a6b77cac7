package http

import (
	"net/http"

	"github.com/dstu-guide/guide-api/internal/rbac"
	"github.com/dstu-guide/guide-api/internal/users"
)

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// POST /api/users/change-password changes the caller's own password.
func ChangePasswordHandler(us *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := rbac.CallerFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req changePasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := us.ChangePassword(r.Context(), caller.UserID, req.OldPassword, req.NewPassword); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
