// Package sqlite implements repository.UserRepository on an embedded SQLite
// database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// modernc.org/sqlite is a pure Go translation of SQLite: no CGo and no C
// toolchain, so cross-compilation just works.
//
// sql.DB is a connection pool, not a single connection. SQLite PRAGMAs are
// per-connection, so they are passed in the DSN (_pragma=...) and the driver
// applies them to every connection the pool opens.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/sakif/accounts/internal/repository/migrations"
)

// pragmas applied to every pooled connection:
//   - foreign_keys: OFF by default in SQLite; credentials reference users
//   - journal_mode=WAL: readers don't block on the writer
//   - busy_timeout: wait for the write lock instead of failing with SQLITE_BUSY
var pragmas = []string{
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"busy_timeout(5000)",
}

// DB wraps a sql.DB connection pool and implements repository.UserRepository.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// New opens (creating if needed) the SQLite database at dbPath and applies
// pending migrations.
//
// dbPath examples:
//   - "data/accounts.db"  → file-based database (persistent)
//   - t.TempDir() + "/x.db" → per-test database
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't connect; Ping surfaces a bad path or permissions now.
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if err := migrations.Up(ctx, conn, goose.DialectSQLite3, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return &DB{conn: conn, logger: logger}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func dsn(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}
