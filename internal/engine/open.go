package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver (cgo)
	_ "modernc.org/sqlite"             // sqlite driver (pure Go)
)

// Supported database/sql driver names.
const (
	DriverSQLite3 = "sqlite3"
	DriverSQLite  = "sqlite"
	DriverDuckDB  = "duckdb"
)

// SQLite busy timeout applied to file databases.
const defaultBusyTimeout = "5000" // 5 seconds

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverSQLite3, DriverSQLite, DriverDuckDB}
}

// Open opens a database for driver and dsn, pinned to a single connection.
//
// Temporary views and in-memory databases live on one connection, so the
// pool never grows past one and never recycles it. An empty DuckDB dsn is an
// in-memory database.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite3, DriverSQLite, DriverDuckDB:
	default:
		return nil, fmt.Errorf("unsupported driver %q: use one of %s", driver, strings.Join(Drivers(), ", "))
	}

	db, err := sql.Open(driver, buildDSN(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Verify the connection is usable.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

// buildDSN adds a busy timeout to SQLite file DSNs that carry no options.
func buildDSN(driver, dsn string) string {
	if dsn == "" || dsn == ":memory:" || strings.Contains(dsn, "?") || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	switch driver {
	case DriverSQLite3:
		return dsn + "?_busy_timeout=" + defaultBusyTimeout
	case DriverSQLite:
		return dsn + "?_pragma=busy_timeout(" + defaultBusyTimeout + ")"
	default:
		return dsn
	}
}
