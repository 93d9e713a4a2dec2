package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leapstack-labs/lcaview/pkg/lca"
)

// ErrNoSnapshot is returned by Current before the first successful load.
var ErrNoSnapshot = errors.New("no metadata loaded")

// Snapshot is one successfully loaded metadata revision.
// Snapshots are shared between goroutines and must not be modified.
type Snapshot struct {
	Metadata *lca.Metadata
	Issues   []lca.Issue // warnings only; a snapshot never carries errors
	Hash     string
	Source   string
	LoadedAt time.Time
}

// Warnings returns the number of warnings attached to the snapshot.
func (s *Snapshot) Warnings() int {
	return len(s.Issues)
}

// Listener is called after every successful load.
type Listener func(*Snapshot)

// Loader reads a metadata file and keeps the most recent valid snapshot.
type Loader struct {
	path   string
	logger *slog.Logger

	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []Listener
}

// NewLoader creates a loader for the file at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		path:   path,
		logger: logger,
	}
}

// Path returns the watched metadata file path.
func (l *Loader) Path() string {
	return l.path
}

// OnLoad registers a listener for successful loads.
func (l *Loader) OnLoad(fn Listener) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// Load reads, decodes and validates the metadata file.
// On success the new snapshot replaces the current one. On failure the
// current snapshot is kept and the error is returned.
func (l *Loader) Load() (*Snapshot, error) {
	snap, err := ReadFile(l.path)
	if err != nil {
		if prev := l.current.Load(); prev != nil {
			l.logger.Warn("metadata reload failed, keeping previous revision",
				"path", l.path, "hash", prev.Hash, "error", err)
		}
		return nil, err
	}

	prev := l.current.Swap(snap)
	if prev != nil && prev.Hash == snap.Hash {
		l.logger.Debug("metadata unchanged", "path", l.path, "hash", snap.Hash)
	} else {
		l.logger.Info("metadata loaded",
			"path", l.path,
			"project", snap.Metadata.ProjectName,
			"scenarios", len(snap.Metadata.Scenarios),
			"warnings", snap.Warnings(),
		)
	}

	l.mu.Lock()
	listeners := append([]Listener(nil), l.listeners...)
	l.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}

	return snap, nil
}

// Current returns the most recent valid snapshot.
func (l *Loader) Current() (*Snapshot, error) {
	if s := l.current.Load(); s != nil {
		return s, nil
	}
	return nil, ErrNoSnapshot
}

// ReadFile loads a snapshot from path without retaining it.
// Metadata with error-severity issues is rejected with a *lca.ValidationError.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from project config
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	return FromBytes(data, path)
}

// FromBytes builds a snapshot from raw document bytes.
func FromBytes(data []byte, source string) (*Snapshot, error) {
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var issues []lca.Issue
	if err := m.Validate(); err != nil {
		var ve *lca.ValidationError
		if !errors.As(err, &ve) || !ve.Valid() {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		issues = ve.Warnings()
	}

	sum := sha256.Sum256(data)
	return &Snapshot{
		Metadata: m,
		Issues:   issues,
		Hash:     hex.EncodeToString(sum[:]),
		Source:   source,
		LoadedAt: time.Now().UTC(),
	}, nil
}
