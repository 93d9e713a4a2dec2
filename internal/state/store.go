// Package state records the history of loaded metadata revisions in SQLite.
package state

import "time"

// Revision is one recorded metadata load.
type Revision struct {
	ID           string    `json:"id"`
	ContentHash  string    `json:"content_hash"`
	ProjectName  string    `json:"project_name"`
	SourcePath   string    `json:"source_path"`
	WarningCount int       `json:"warning_count"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// Store persists metadata revisions.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// RecordRevision stores rev unless its content hash equals the latest
	// revision's. It reports whether a row was written.
	RecordRevision(rev *Revision) (bool, error)
	LatestRevision() (*Revision, error)
	ListRevisions(limit int) ([]*Revision, error)
}
