// Package sqlitestore provides a SQLite implementation of the stores.
//
// The schema enforces the dependency invariants the engine relies on:
// an edge is unique per (task, depends_on) pair, never points at its own
// task, and disappears with either endpoint.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/infra/storelock"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - empty database
// 1 - projects, tasks, dependencies
const currentSchemaVersion = 1

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Store implements domain.Store on a SQLite database file.
// The database is opened on first use.
type Store struct {
	db       *sql.DB
	path     string
	memLocks storelock.Table // insert locks of in-memory databases
	mu       sync.Mutex
}

// New creates a Store for the database at path.
// Nothing is opened until Initialize or the first query.
func New(path string) *Store {
	return &Store{path: path}
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	s := New(path)
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize creates the database file and schema if needed. It is idempotent.
func (s *Store) Initialize() error {
	_, err := s.open(true)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database. A missing database file is reported as
// domain.ErrNotInitialized rather than silently created.
func (s *Store) conn() (*sql.DB, error) {
	return s.open(false)
}

func (s *Store) open(create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if !create {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite has a single writer; one connection avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	return db, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and records the schema version.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LockProject takes the project's insert lock: an flock on a per-project file
// under "<database>.locks", or an in-process lock for in-memory databases.
// The lock lives outside the database so the caller keeps using the single
// connection while holding it.
func (s *Store) LockProject(ctx context.Context, projectID string) (func(), error) {
	if _, err := s.conn(); err != nil {
		return nil, err
	}
	if s.inMemory() {
		return s.memLocks.Lock(ctx, projectID)
	}
	return storelock.File(ctx, storelock.FilePath(s.path+".locks", projectID))
}

func (s *Store) inMemory() bool {
	return s.path == ":memory:" || strings.HasPrefix(s.path, "file::memory:") || strings.Contains(s.path, "mode=memory")
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY constraint failure.
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
