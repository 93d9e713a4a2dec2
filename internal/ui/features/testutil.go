// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/testutil"
	"github.com/leapstack-labs/lcaview/internal/ui/app"
	"github.com/leapstack-labs/lcaview/internal/ui/bootstrap"
	"github.com/leapstack-labs/lcaview/internal/ui/notifier"
	"github.com/leapstack-labs/lcaview/internal/ui/views"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Dir          string
	DataDir      string
	MetadataPath string
	Loader       *metadata.Loader
	Document     *app.Document
	App          *bootstrap.Handle
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture writes the sample metadata and one results file per
// scenario into a temp project, loads it, and mounts the viewer.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0750))

	metadataPath := testutil.WriteSampleMetadata(t, tmpDir)
	testutil.WriteFile(t, dataDir, "base.json", `{"scenario":"base","values":[1,2,3]}`)
	testutil.WriteFile(t, dataDir, "green.json", `{"scenario":"green","values":[0.5]}`)

	loader := metadata.NewLoader(metadataPath, logger)
	_, err := loader.Load()
	require.NoError(t, err)

	doc := app.NewDocument("LCA Viewer")
	handle, err := bootstrap.Initialize(doc, views.Page(), app.DefaultAnchor)
	require.NoError(t, err)

	return &TestFixture{
		Dir:          tmpDir,
		DataDir:      dataDir,
		MetadataPath: metadataPath,
		Loader:       loader,
		Document:     doc,
		App:          handle,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
