package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dstu-guide/guide-api/internal/attempt"
	auth "github.com/dstu-guide/guide-api/internal/auth/middleware"
	"github.com/dstu-guide/guide-api/internal/blog"
	"github.com/dstu-guide/guide-api/internal/logger"
	"github.com/dstu-guide/guide-api/internal/quiz"
	"github.com/dstu-guide/guide-api/internal/rbac"
	"github.com/dstu-guide/guide-api/internal/storage"
	"github.com/dstu-guide/guide-api/internal/users"
)

const Version = "1.0.0"

type Deps struct {
	Log   *logger.Logger
	Store Pinger

	Users    *users.Store
	Quiz     *quiz.Store
	Blog     *blog.Store
	Ledger   *attempt.Ledger
	Recorder *attempt.Recorder
	Scorer   *attempt.Scorer
	Blobs    storage.BlobStore
	Auth     *auth.AuthService

	// AuthRequired puts authoring routes behind a bearer token and RBAC.
	AuthRequired   bool
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/", IndexHandler(Version))
	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(d.Store))

	// both are no-ops unless AuthRequired is set
	passthrough := func(next http.Handler) http.Handler { return next }
	authenticated := passthrough
	require := func(string) func(http.Handler) http.Handler { return passthrough }
	jwtMW := auth.JWTMiddleware(d.Auth)
	roleMW := auth.AttachRoleFromDB(d.Users, false)
	withToken := func(next http.Handler) http.Handler { return jwtMW(roleMW(next)) }
	if d.AuthRequired {
		authenticated = withToken
		require = rbac.Require
	}

	r.Route("/api", func(api chi.Router) {
		// with auth on, self-registration cannot pick a privileged role
		api.Post("/register", RegisterHandler(d.Users, !d.AuthRequired))
		api.Post("/login", LoginHandler(d.Users, d.Auth))
		api.Get("/users/{id}", GetUserHandler(d.Users))

		// attempt flow never needs a token
		api.Post("/attempts", StartAttemptHandler(d.Ledger))
		api.Post("/attempts/{id}/answers", SubmitAnswerHandler(d.Recorder))
		api.Post("/attempts/{id}/finish", FinishAttemptHandler(d.Scorer))
		api.Get("/attempts/{id}", GetAttemptHandler(d.Ledger))

		api.Get("/posts", ListPostsHandler(d.Blog))
		api.Get("/posts/{id}", GetPostHandler(d.Blog))
		api.Get("/tags", ListTagsHandler(d.Blog))
		api.Get("/tests", ListTestsHandler(d.Quiz))
		api.Get("/tests/{id}", GetTestHandler(d.Quiz))
		api.Get("/questions/{id}/options", QuestionOptionsHandler(d.Quiz))
		api.Get("/uploads/*", ServeUploadHandler(d.Blobs))

		// account routes act on the caller, so they always need a token
		api.Group(func(ar chi.Router) {
			ar.Use(withToken)
			ar.Post("/users/change-password", ChangePasswordHandler(d.Users))
			ar.With(rbac.Require("user:set-role")).Patch("/users/{id}/role", AdminUpdateUserRoleHandler(d.Users))
		})

		api.Group(func(pr chi.Router) {
			pr.Use(authenticated)

			listAttempts := http.Handler(ListUserAttemptsHandler(d.Ledger))
			if d.AuthRequired {
				listAttempts = rbac.RequireOwnerOr("user:view-all", isSelf)(listAttempts)
			}
			pr.Method(http.MethodGet, "/users/{id}/attempts", listAttempts)

			pr.With(require("test:create")).Post("/tests", CreateTestHandler(d.Quiz))
			pr.With(require("test:author")).Post("/tests/{id}/questions", AddQuestionHandler(d.Quiz))
			pr.With(require("test:author")).Post("/tests/{id}/publish", PublishTestHandler(d.Quiz))

			pr.With(require("post:create")).Post("/posts", CreatePostHandler(d.Blog))
			pr.With(require("post:tag")).Post("/posts/{id}/tags", AttachTagHandler(d.Blog))
			pr.With(require("tag:create")).Post("/tags", CreateTagHandler(d.Blog))

			pr.With(require("upload:create")).Post("/uploads", UploadHandler(d.Blobs))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	})
	return r
}

// isSelf reports whether the {id} in the path is the caller's own user id.
func isSelf(r *http.Request) bool {
	caller, ok := rbac.CallerFromContext(r.Context())
	if !ok {
		return false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return err == nil && id == caller.UserID
}
