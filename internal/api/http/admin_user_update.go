package http

import (
	"net/http"
	"strings"

	"github.com/dstu-guide/guide-api/internal/users"
)

type updateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

// PATCH /api/users/{id}/role
func AdminUpdateUserRoleHandler(us *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req updateUserRoleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		u, err := us.SetRole(r.Context(), id, strings.ToLower(req.Role))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "role updated", "user": u})
	}
}
