// Package dbtest opens throwaway in-memory SQLite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dstu-guide/guide-api/internal/db"
)

var seq atomic.Int64

// Open returns a migrated in-memory store closed at test cleanup.
func Open(t testing.TB) *db.Handle {
	t.Helper()
	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, seq.Add(1))
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn, 5*time.Second)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// MustExec runs a raw statement against h, failing the test on error.
func MustExec(t testing.TB, h *db.Handle, query string, args ...any) {
	t.Helper()
	if _, err := h.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
