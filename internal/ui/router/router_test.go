package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/testutil"
	"github.com/leapstack-labs/lcaview/internal/ui/features"
)

func setupRouter(t *testing.T, isDev bool) (http.Handler, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, Deps{
		App:          fixture.App,
		Loader:       fixture.Loader,
		SessionStore: fixture.SessionStore,
		Notifier:     fixture.Notifier,
		DataDir:      fixture.DataDir,
		Logger:       testutil.NewTestLogger(t),
		IsDev:        isDev,
	}))
	return r, fixture
}

func TestSetupRoutes(t *testing.T) {
	r, _ := setupRouter(t, false)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/metadata", http.StatusOK},
		{http.MethodGet, "/api/metadata/validation", http.StatusOK},
		{http.MethodGet, "/api/scenarios/base", http.StatusOK},
		{http.MethodGet, "/api/scenarios/nope", http.StatusNotFound},
		{http.MethodGet, "/data/green", http.StatusOK},
		{http.MethodGet, "/static/style.css", http.StatusOK},
		{http.MethodGet, "/static/missing.css", http.StatusNotFound},
		{http.MethodGet, "/hotreload", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSetupRoutes_DevReload(t *testing.T) {
	r, _ := setupRouter(t, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHealthz_NoMetadata(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, Deps{
		App:          fixture.App,
		Loader:       metadata.NewLoader(fixture.MetadataPath, nil),
		SessionStore: fixture.SessionStore,
		Notifier:     fixture.Notifier,
		DataDir:      fixture.DataDir,
		Logger:       testutil.NewTestLogger(t),
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), metadata.ErrNoSnapshot.Error())
}
