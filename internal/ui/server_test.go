package ui

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lcaview/internal/config"
	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/state"
	"github.com/leapstack-labs/lcaview/internal/testutil"
	"github.com/leapstack-labs/lcaview/internal/ui/resources"
)

type serverFixture struct {
	server *Server
	loader *metadata.Loader
	store  *state.SQLiteStore
	path   string
}

func setupServer(t *testing.T, mutate func(*config.UIConfig)) *serverFixture {
	t.Helper()
	logger := testutil.NewTestLogger(t)

	dir := t.TempDir()
	path := testutil.WriteSampleMetadata(t, dir)
	testutil.WriteFile(t, dir, "data/base.json", `{"values":[1]}`)

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	uiCfg := config.DefaultUIConfig()
	uiCfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	uiCfg.Watch = false
	if mutate != nil {
		mutate(uiCfg)
	}

	loader := metadata.NewLoader(path, logger)
	srv, err := NewServer(Config{
		Loader:  loader,
		Store:   store,
		UI:      uiCfg,
		DataDir: filepath.Join(dir, "data"),
		Logger:  logger,
	})
	require.NoError(t, err)

	return &serverFixture{server: srv, loader: loader, store: store, path: path}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewServer_Errors(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	loader := metadata.NewLoader("metadata.json", logger)

	_, err := NewServer(Config{UI: config.DefaultUIConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader is required")

	_, err = NewServer(Config{Loader: loader, UI: config.DefaultUIConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session secret is required")

	bad := config.DefaultUIConfig()
	bad.SessionSecret = "secret"
	bad.Anchor = "#app"
	_, err = NewServer(Config{Loader: loader, UI: bad})
	assert.Error(t, err)
}

func TestServer_MountsViewer(t *testing.T) {
	f := setupServer(t, func(c *config.UIConfig) { c.Title = "Heating study" })

	doc := f.server.Document()
	assert.Equal(t, "Heating study", doc.Title())
	assert.Equal(t, []string{resources.StylePath, resources.TooltipStylePath}, doc.Stylesheets())
	assert.Equal(t, resources.DevMode, f.server.IsDev())
}

func TestServer_Handler(t *testing.T) {
	f := setupServer(t, nil)
	require.NoError(t, f.server.Reload())

	h, err := f.server.Handler()
	require.NoError(t, err)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="app">`)
	assert.Contains(t, body, resources.StylePath)
	assert.Contains(t, body, resources.TooltipStylePath)
	assert.Contains(t, body, resources.DatastarScriptURL)
	assert.Contains(t, body, "Residential heating")

	rec = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = get(t, h, resources.StylePath)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HealthzBeforeLoad(t *testing.T) {
	f := setupServer(t, nil)

	h, err := f.server.Handler()
	require.NoError(t, err)

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ReloadRecordsRevisionAndBroadcasts(t *testing.T) {
	f := setupServer(t, nil)
	ch := f.server.Notifier().Subscribe()
	defer f.server.Notifier().Unsubscribe(ch)

	require.NoError(t, f.server.Reload())

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no broadcast after load")
	}

	rev, err := f.store.LatestRevision()
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "Residential heating", rev.ProjectName)

	// Unchanged content is not recorded twice.
	require.NoError(t, f.server.Reload())
	revs, err := f.store.ListRevisions(10)
	require.NoError(t, err)
	assert.Len(t, revs, 1)

	updated := strings.Replace(testutil.SampleMetadataJSON, "Residential heating", "District heating", 1)
	testutil.WriteFile(t, filepath.Dir(f.path), "metadata.json", updated)
	require.NoError(t, f.server.Reload())

	revs, err = f.store.ListRevisions(10)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func TestServer_FailedReloadKeepsSnapshot(t *testing.T) {
	f := setupServer(t, nil)
	require.NoError(t, f.server.Reload())
	before, err := f.loader.Current()
	require.NoError(t, err)

	testutil.WriteFile(t, filepath.Dir(f.path), "metadata.json", `{"projectName": "broken"}`)
	assert.Error(t, f.server.Reload())

	after, err := f.loader.Current()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestServer_ServeListener_WatchesMetadata(t *testing.T) {
	f := setupServer(t, func(c *config.UIConfig) {
		c.Watch = true
		c.WatchDebounce = 10 * time.Millisecond
		c.ShutdownTimeout = time.Second
	})
	require.NoError(t, f.server.Reload())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.ServeListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "OK"
	}, 2*time.Second, 20*time.Millisecond)

	updated := strings.Replace(testutil.SampleMetadataJSON, "Residential heating", "District heating", 1)
	require.Eventually(t, func() bool {
		if snap, err := f.loader.Current(); err == nil && snap.Metadata.ProjectName == "District heating" {
			return true
		}
		// Rewrite until the watcher has been registered and picks it up.
		testutil.WriteFile(t, filepath.Dir(f.path), "metadata.json", updated)
		return false
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
