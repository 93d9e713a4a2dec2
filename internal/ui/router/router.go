// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/ui/bootstrap"
	dashboardFeature "github.com/leapstack-labs/lcaview/internal/ui/features/dashboard"
	"github.com/leapstack-labs/lcaview/internal/ui/notifier"
	"github.com/leapstack-labs/lcaview/internal/ui/resources"
)

// Deps are the shared dependencies of the feature routes.
type Deps struct {
	App          *bootstrap.Handle
	Loader       *metadata.Loader
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	DataDir      string
	Logger       *slog.Logger
	IsDev        bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := dashboardFeature.SetupRoutes(
		router,
		deps.App,
		deps.Loader,
		deps.SessionStore,
		deps.Notifier,
		deps.DataDir,
		deps.Logger,
	); err != nil {
		return err
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := deps.Loader.Current(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("OK"))
	})

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
