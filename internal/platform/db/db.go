package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to PostgreSQL through the pgx stdlib driver.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

// OpenSQLite opens an embedded SQLite database. Use ":memory:" for tests.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", path, err)
	}

	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", path, err)
	}

	return db, nil
}

// OpenDriver opens the store selected by driver ("sqlite" or "postgres").
func OpenDriver(driver, sqlitePath, databaseURL string) (*sql.DB, error) {
	switch driver {
	case "postgres":
		return Open(databaseURL)
	case "sqlite":
		return OpenSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("openDB: unsupported driver %q", driver)
	}
}
