package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

const devSecret = "dev-only-change-me"

type Config struct {
	Mode     Mode
	HTTPAddr string
	SiteID   string

	DBDriver     string // sqlite|postgres|mysql
	DBDSN        string
	StoreTimeout time.Duration // per store operation

	BlobBasePath string

	// AuthRequired gates authoring endpoints behind a bearer token.
	// Attempt endpoints never require one.
	AuthRequired   bool
	AuthHMACSecret string
	// AuthSecretSet is false when AuthHMACSecret is the dev fallback.
	AuthSecretSet bool
	// AdminEmail is promoted to admin at startup when that account exists.
	AdminEmail string

	CORSOrigins []string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(strings.ToLower(os.Getenv("MODE")))
	if mode == "" || mode == "development" {
		mode = ModeDev
	}
	if mode == "production" {
		mode = ModeProd
	}
	secret := os.Getenv("AUTH_HMAC_SECRET")
	return Config{
		Mode:           mode,
		HTTPAddr:       envOr("HTTP_ADDR", ":3000"),
		SiteID:         envOr("SITE_ID", "local"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		StoreTimeout:   envDuration("STORE_TIMEOUT", 5*time.Second),
		BlobBasePath:   envOr("BLOB_BASE_PATH", "./data"),
		AuthRequired:   envBool("AUTH_REQUIRED", false),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", devSecret),
		AuthSecretSet:  secret != "",
		AdminEmail:     strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		CORSOrigins:    csvOr("CORS_ORIGINS", "*"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
