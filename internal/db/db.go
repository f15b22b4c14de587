// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlite "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/codr1/Courtly/internal/config"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// overlapViolation is the message raised by the bookings_no_overlap_* triggers.
const overlapViolation = "booking_overlap"

// ErrBookingOverlap is returned when a write would make two active bookings
// on the same court overlap.
var ErrBookingOverlap = errors.New("active booking overlaps an existing booking")

type DB struct {
	*sql.DB
	Queries *dbgen.Queries
}

// New opens a SQLite database for the given data source name, ensures the DSN
// enables foreign keys, immediate write transactions and a busy timeout,
// applies embedded migrations, and returns a DB with generated queries bound
// to the connection.
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", sqliteDSN(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:      sqlDB,
		Queries: dbgen.New(sqlDB),
	}, nil
}

// NewFromConfig opens the configured database, applies migrations, and returns
// a DB with generated queries bound to the connection.
// It supports "sqlite" (creating the database directory if needed) and "turso"
// (a libsql connection string carrying the auth token).
func NewFromConfig(cfg *config.Config) (*DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Database.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
		db, err = sql.Open("sqlite3", sqliteDSN(cfg.Database.Filename))

	case "turso":
		connector := fmt.Sprintf("%s?authToken=%s", cfg.Database.URL, cfg.Database.AuthToken)
		db, err = sql.Open("libsql", connector)

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:      db,
		Queries: dbgen.New(db),
	}, nil
}

// sqliteDSN adds the connection parameters the booking engine relies on unless
// the caller already set them: foreign keys on, BEGIN IMMEDIATE for every
// transaction so concurrent check-then-insert sequences serialize, and a busy
// timeout so the loser waits instead of failing with SQLITE_BUSY.
func sqliteDSN(dataSourceName string) string {
	params := []struct{ key, value string }{
		{"_fk", "1"},
		{"_txlock", "immediate"},
		{"_busy_timeout", "5000"},
	}
	for _, p := range params {
		if strings.Contains(dataSourceName, p.key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		dataSourceName += sep + p.key + "=" + p.value
	}
	return dataSourceName
}

// runMigrations applies the embedded SQL migrations to the provided database.
// A "no change" result is not treated as an error.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs", source,
		"sqlite3", driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// WithTx creates a new DB instance with the given transaction
func (db *DB) WithTx(tx *sql.Tx) *DB {
	return &DB{
		DB:      db.DB,
		Queries: dbgen.New(tx),
	}
}

// BeginTx starts a transaction
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return tx, nil
}

// RunInTx runs the given function in a transaction
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txDB := db.WithTx(tx)
	if err := fn(txDB); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	return nil
}

// TranslateError maps storage constraint violations onto package sentinels.
// Errors it does not recognize are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite.ErrConstraint &&
		strings.Contains(sqliteErr.Error(), overlapViolation) {
		return fmt.Errorf("%w: %v", ErrBookingOverlap, err)
	}
	// libsql surfaces trigger aborts as plain errors carrying the message.
	if strings.Contains(err.Error(), overlapViolation) {
		return fmt.Errorf("%w: %v", ErrBookingOverlap, err)
	}
	return err
}
