package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var numberedParam = regexp.MustCompile(`\$\d+`)

// Rebind rewrites $N placeholders for drivers that only take '?'.
// Queries must use each $N once, in ascending order.
func (h *Handle) Rebind(query string) string {
	if h.Driver != DriverMySQL {
		return query
	}
	return numberedParam.ReplaceAllString(query, "?")
}

// InsertID runs an INSERT and returns the generated key from idColumn.
func (h *Handle) InsertID(ctx context.Context, q Querier, query, idColumn string, args ...any) (int64, error) {
	if h.Driver == DriverMySQL {
		res, err := q.ExecContext(ctx, h.Rebind(query), args...)
		if err != nil {
			return 0, Classify(err)
		}
		id, err := res.LastInsertId()
		return id, Classify(err)
	}
	var id int64
	err := q.QueryRowContext(ctx, query+" RETURNING "+idColumn, args...).Scan(&id)
	return id, Classify(err)
}

// ForUpdate is the row-lock suffix for SELECTs inside a transaction. SQLite
// has a single writer and no such clause.
func (h *Handle) ForUpdate() string {
	if h.Driver == DriverSQLite {
		return ""
	}
	return " FOR UPDATE"
}

// Exists runs a single-row check such as SELECT 1 ... and reports whether it
// matched.
func (h *Handle) Exists(ctx context.Context, q Querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, h.Rebind(query), args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, Classify(err)
	}
	return true, nil
}

// WithTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (h *Handle) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := h.BeginTx(ctx, nil)
	if err != nil {
		return Classify(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = Classify(tx.Commit())
		}
	}()
	return fn(tx)
}

// Op bounds one store operation with the handle's timeout.
func (h *Handle) Op(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.OpTimeout)
}
