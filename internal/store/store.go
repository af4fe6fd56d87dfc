package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/askdb-io/askdb/internal/errors"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store wraps the SQLite database backing the practice data. It only ever
// issues read statements apart from Seed.
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

// Options configures the connection pool and statement timeout
type Options struct {
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration

	// CreateIfMissing lets Open succeed for a database file that does not
	// exist yet. Only the seeding path should set it; everywhere else a
	// missing file means the store is unavailable.
	CreateIfMissing bool
}

// DefaultOptions returns pool settings suited to a local SQLite file
func DefaultOptions() Options {
	return Options{
		MaxConnections:  4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		QueryTimeout:    30 * time.Second,
	}
}

// Open opens the SQLite database at path and verifies connectivity
func Open(path string, opts Options) (*Store, error) {
	if !opts.CreateIfMissing {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.NewStoreUnavailable(
				fmt.Errorf("database file not found: %s", path))
		}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrTypeFileSystem,
				"failed to create database directory %s", dir)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	db.SetMaxOpenConns(opts.MaxConnections)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewStoreUnavailable(err)
	}

	return &Store{
		db:           db,
		path:         path,
		queryTimeout: opts.QueryTimeout,
	}, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is still usable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewStoreUnavailable(err)
	}

	return nil
}

// Query runs a read statement and collects the full result set. Used by
// introspection internals; callers executing model-suggested SQL should go
// through RunSelect for the read-only guard.
func (s *Store) Query(ctx context.Context, query string, args ...interface{}) (*ResultSet, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)

		defer cancel()
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeExecution, "query failed")
	}
	defer rows.Close()

	return scanResultSet(rows)
}

// RunSelect executes a caller-supplied statement after checking that it is a
// plain read. The guard is textual, not a parser: it blocks the obvious write
// and DDL forms, nothing more.
func (s *Store) RunSelect(ctx context.Context, query string) (*ResultSet, error) {
	if err := guardReadOnly(query); err != nil {
		return nil, err
	}

	return s.Query(ctx, query)
}

// guardReadOnly rejects statements that are not SELECT (or WITH ... SELECT)
func guardReadOnly(query string) error {
	trimmed := strings.ToLower(strings.TrimSpace(query))
	if trimmed == "" {
		return errors.New(errors.ErrTypeValidation, "SQL statement cannot be empty")
	}

	if !strings.HasPrefix(trimmed, "select") && !strings.HasPrefix(trimmed, "with") {
		return errors.New(errors.ErrTypeValidation, "only SELECT statements are allowed")
	}

	dangerousPatterns := []string{
		"drop table", "drop database", "delete from", "truncate",
		"alter table", "create table", "insert into", "update ",
		"attach database", "pragma writable_schema", "vacuum into",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(trimmed, pattern) {
			return errors.Newf(errors.ErrTypeValidation,
				"SQL contains potentially dangerous operation: %s", pattern)
		}
	}

	return nil
}

// quoteIdentifier quotes a table or column name for safe interpolation
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
