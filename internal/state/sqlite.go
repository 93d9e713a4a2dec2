package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// NewSQLiteStoreWithDB wraps an existing connection. Used by tests.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx()); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// RecordRevision stores rev unless its hash matches the latest revision.
func (s *SQLiteStore) RecordRevision(rev *Revision) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	latest, err := s.LatestRevision()
	if err != nil {
		return false, err
	}
	if latest != nil && latest.ContentHash == rev.ContentHash {
		s.logger.Debug("revision unchanged", slog.String("hash", rev.ContentHash))
		return false, nil
	}

	if rev.ID == "" {
		rev.ID = generateID()
	}
	if rev.LoadedAt.IsZero() {
		rev.LoadedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx(),
		`INSERT INTO metadata_revisions
			(id, content_hash, project_name, source_path, warning_count, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.ContentHash, rev.ProjectName, rev.SourcePath,
		rev.WarningCount, rev.LoadedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record revision: %w", err)
	}

	s.logger.Debug("revision recorded", slog.String("id", rev.ID), slog.String("hash", rev.ContentHash))
	return true, nil
}

// LatestRevision returns the most recent revision, or nil if none exists.
func (s *SQLiteStore) LatestRevision() (*Revision, error) {
	revs, err := s.ListRevisions(1)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, nil
	}
	return revs[0], nil
}

// ListRevisions returns up to limit revisions, newest first.
// A non-positive limit returns every revision.
func (s *SQLiteStore) ListRevisions(limit int) ([]*Revision, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx(),
		`SELECT id, content_hash, project_name, source_path, warning_count, loaded_at
		 FROM metadata_revisions
		 ORDER BY loaded_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var revs []*Revision
	for rows.Next() {
		r := &Revision{}
		if err := rows.Scan(&r.ID, &r.ContentHash, &r.ProjectName, &r.SourcePath,
			&r.WarningCount, &r.LoadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revs = append(revs, r)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revs, nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func ctx() context.Context {
	return context.Background()
}
