// Package dashboard provides the metadata viewer feature of the UI.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/ui/bootstrap"
	"github.com/leapstack-labs/lcaview/internal/ui/notifier"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	handle *bootstrap.Handle,
	loader *metadata.Loader,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	dataDir string,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(handle, loader, sessionStore, notify, dataDir, logger)

	router.Get("/", handlers.DashboardPage)
	router.Get("/updates", handlers.DashboardUpdates)
	router.Post("/scenario", handlers.SelectScenario)
	router.Get("/data/{key}", handlers.ScenarioData)

	router.Route("/api", func(r chi.Router) {
		r.Get("/metadata", handlers.Metadata)
		r.Get("/metadata/validation", handlers.Validation)
		r.Get("/scenarios/{key}", handlers.Scenario)
	})

	return nil
}
