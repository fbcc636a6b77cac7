package http

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// GET /
func IndexHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "DSTU interactive guide API",
			"version": version,
			"endpoints": map[string]string{
				"users":    "/api/users",
				"posts":    "/api/posts",
				"tests":    "/api/tests",
				"tags":     "/api/tags",
				"attempts": "/api/attempts",
			},
		})
	}
}

func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
}

// ReadyzHandler reports 503 while the store cannot be reached.
func ReadyzHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.PingContext(ctx); err != nil {
			noteError(r, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store unavailable", "details": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
