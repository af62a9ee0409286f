package db

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the configured database. driver is "pgx" (Postgres) or
// "sqlite"; dsn is a Postgres URL or a SQLite file path.
func Open(driver, dsn string) (*sqlx.DB, error) {
	driver = strings.TrimSpace(driver)
	if driver == "postgres" {
		driver = "pgx"
	}
	if dsn == "" {
		return nil, fmt.Errorf("openDB: %s dsn is empty", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	switch driver {
	case "pgx":
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	case "sqlite":
		// A single connection keeps writes serialised and in-memory databases shared.
		db.SetMaxOpenConns(1)
	default:
		db.Close()
		return nil, fmt.Errorf("openDB: unsupported driver %q", driver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return db, nil
}
