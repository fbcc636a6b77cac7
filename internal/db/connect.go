package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // driver: mysql
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Handle is the store handle injected into every component. It carries the
// pool, the dialect and the per-operation timeout.
type Handle struct {
	*sql.DB
	Driver    Driver
	OpTimeout time.Duration
}

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string, opTimeout time.Duration) (*Handle, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:guide.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/guide?sslmode=disable"
		}
	case DriverMySQL:
		drvName = "mysql"
		if dsn == "" {
			dsn = "root:@tcp(127.0.0.1:3306)/dstu-interactive-guide"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	sqlDB, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// single writer; also keeps in-memory databases on one connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, Classify(err)
	}

	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	h := &Handle{DB: sqlDB, Driver: driver, OpTimeout: opTimeout}
	if err := h.ensureSchema(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return h, nil
}

func (h *Handle) ensureSchema(ctx context.Context) error {
	var stmts []string
	switch h.Driver {
	case DriverSQLite:
		stmts = schemaSQLite
	case DriverPostgres:
		stmts = schemaPostgres
	case DriverMySQL:
		stmts = schemaMySQL
	}
	for _, s := range stmts {
		if _, err := h.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
