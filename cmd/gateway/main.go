package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/dstu-guide/guide-api/internal/api/http"
	"github.com/dstu-guide/guide-api/internal/attempt"
	auth "github.com/dstu-guide/guide-api/internal/auth/middleware"
	"github.com/dstu-guide/guide-api/internal/blog"
	"github.com/dstu-guide/guide-api/internal/config"
	"github.com/dstu-guide/guide-api/internal/db"
	"github.com/dstu-guide/guide-api/internal/logger"
	"github.com/dstu-guide/guide-api/internal/quiz"
	storage "github.com/dstu-guide/guide-api/internal/storage"
	syncx "github.com/dstu-guide/guide-api/internal/sync"
	"github.com/dstu-guide/guide-api/internal/users"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(string(cfg.Mode))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN, cfg.StoreTimeout)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer dbh.Close()

	bs, err := storage.NewFSStore(cfg.BlobBasePath, "/api/uploads/")
	if err != nil {
		log.Fatal("blob store", "path", cfg.BlobBasePath, "error", err)
	}

	if cfg.Mode == config.ModeProd && cfg.AuthRequired && !cfg.AuthSecretSet {
		log.Fatal("AUTH_HMAC_SECRET must be set when AUTH_REQUIRED is on in prod")
	}

	ledger := attempt.NewLedger(dbh, nil)
	us := users.NewStore(dbh)
	if cfg.AdminEmail != "" {
		if _, err := us.PromoteByEmail(ctx, cfg.AdminEmail, users.RoleAdmin); err != nil {
			log.Warn("admin promotion skipped", "email", cfg.AdminEmail, "error", err)
		} else {
			log.Info("admin promoted", "email", cfg.AdminEmail)
		}
	}
	router := api.NewRouter(api.Deps{
		Log:          log,
		Store:        dbh,
		Users:        us,
		Quiz:         quiz.NewStore(dbh),
		Blog:         blog.NewStore(dbh),
		Ledger:       ledger,
		Recorder:     attempt.NewRecorder(dbh, ledger),
		Scorer:       attempt.NewScorer(dbh, ledger, syncx.NewEventRepo(dbh, cfg.SiteID)),
		Blobs:        bs,
		Auth:         auth.NewAuthService(cfg.AuthHMACSecret),
		AuthRequired: cfg.AuthRequired,
		CORSOrigins:  cfg.CORSOrigins,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()
	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "auth_required", cfg.AuthRequired)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}
}
