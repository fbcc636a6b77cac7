package http

import (
	"net/http"
	"strconv"

	auth "github.com/dstu-guide/guide-api/internal/auth/middleware"
	"github.com/dstu-guide/guide-api/internal/users"
)

type registerRequest struct {
	FullName  string `json:"full_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone"`
	Faculty   string `json:"faculty"`
	UserGroup string `json:"user_group"`
	Role      string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/register
// Unless trustRole is set every self-registered account is a student, and
// only PATCH /api/users/{id}/role can promote it.
func RegisterHandler(us *users.Store, trustRole bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !trustRole {
			req.Role = users.RoleStudent
		}
		u, err := us.Register(r.Context(), users.NewUser{
			FullName:  req.FullName,
			Email:     req.Email,
			Password:  req.Password,
			Phone:     req.Phone,
			Faculty:   req.Faculty,
			UserGroup: req.UserGroup,
			Role:      req.Role,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "user registered",
			"user":    u,
		})
	}
}

// POST /api/login
func LoginHandler(us *users.Store, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		u, err := us.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		tok, err := a.IssueJWT(strconv.FormatInt(u.ID, 10), u.Role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      "login successful",
			"user":         u,
			"access_token": tok,
		})
	}
}

// GET /api/users/{id}
func GetUserHandler(us *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		u, err := us.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}
