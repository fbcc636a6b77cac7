package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
	"github.com/dstu-guide/guide-api/internal/db/dbtest"
)

func TestRebind(t *testing.T) {
	q := `SELECT a FROM t WHERE x=$1 AND y=$2 LIMIT $3 OFFSET $10`
	my := &db.Handle{Driver: db.DriverMySQL}
	if got, want := my.Rebind(q), `SELECT a FROM t WHERE x=? AND y=? LIMIT ? OFFSET ?`; got != want {
		t.Fatalf("mysql rebind = %q, want %q", got, want)
	}
	pg := &db.Handle{Driver: db.DriverPostgres}
	if got := pg.Rebind(q); got != q {
		t.Fatalf("postgres rebind changed query: %q", got)
	}
}

func TestInsertIDAndUniqueViolation(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()

	id, err := h.InsertID(ctx, h, `INSERT INTO tags (tag_name) VALUES ($1)`, "tag_id", "campus")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected generated id, got %d", id)
	}

	_, err = h.InsertID(ctx, h, `INSERT INTO tags (tag_name) VALUES ($1)`, "tag_id", "campus")
	if err == nil {
		t.Fatalf("expected unique violation")
	}
	if !db.IsUniqueViolation(err) {
		t.Fatalf("IsUniqueViolation(%v) = false", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	h := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := h.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (tag_name) VALUES ($1)`, "rolled-back"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var n int
	if err := h.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("rollback left %d rows", n)
	}
}

func TestClassify(t *testing.T) {
	if err := db.Classify(nil); err != nil {
		t.Fatalf("nil should stay nil")
	}
	if err := db.Classify(sql.ErrNoRows); !errors.Is(err, sql.ErrNoRows) || errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("ErrNoRows must pass through, got %v", err)
	}
	wrapped := fmt.Errorf("query: %w", context.DeadlineExceeded)
	err := db.Classify(wrapped)
	if !errors.Is(err, apperr.ErrUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("deadline should classify as unavailable, got %v", err)
	}
	if again := db.Classify(err); again != err {
		t.Fatalf("classify should be idempotent")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := db.Open(context.Background(), db.Driver("oracle"), "", 0); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
