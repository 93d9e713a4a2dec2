package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/ui/bootstrap"
	"github.com/leapstack-labs/lcaview/internal/ui/notifier"
	"github.com/leapstack-labs/lcaview/internal/ui/views"
	"github.com/leapstack-labs/lcaview/pkg/lca"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	app          *bootstrap.Handle
	loader       *metadata.Loader
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	dataDir      string
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	handle *bootstrap.Handle,
	loader *metadata.Loader,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	dataDir string,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		app:          handle,
		loader:       loader,
		sessionStore: sessionStore,
		notifier:     notify,
		dataDir:      dataDir,
		logger:       logger,
	}
}

// DashboardPage renders the host document with the mounted viewer.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	snap, _ := h.loader.Current()
	state := views.State{Snapshot: snap, Selected: h.selectedScenario(r)}

	// Render to a buffer so a failing component never leaves a half page.
	var buf bytes.Buffer
	if err := h.app.Render(views.WithState(r.Context(), state), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// DashboardUpdates is the long-lived SSE endpoint of the viewer. It pushes a
// re-rendered shell whenever the metadata changes. The initial state is
// rendered by DashboardPage.
func (h *Handlers) DashboardUpdates(w http.ResponseWriter, r *http.Request) {
	selected := h.selectedScenario(r)
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.PatchElementTempl(h.shell(selected)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SelectScenario stores the posted scenario in the session and answers with
// the re-rendered shell.
func (h *Handlers) SelectScenario(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals ScenarioSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := h.loader.Current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, ok := snap.Metadata.Scenario(signals.Scenario); !ok {
		http.Error(w, fmt.Sprintf("unknown scenario %q", signals.Scenario), http.StatusBadRequest)
		return
	}

	// The session cookie must be set before the SSE stream sends headers.
	session, _ := h.sessionStore.Get(r, SessionName)
	session.Values[sessionKeyScenario] = signals.Scenario
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", "error", err)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(h.shell(signals.Scenario)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Metadata returns the current metadata in its wire format.
func (h *Handlers) Metadata(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentOrError(w)
	if !ok {
		return
	}

	etag := `"` + snap.Hash + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap.Metadata)
}

// Validation returns the issues found in the current metadata.
func (h *Handlers) Validation(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.currentOrError(w)
	if !ok {
		return
	}

	issues := snap.Metadata.Issues()
	resp := ValidationResponse{
		Valid:  snap.Metadata.Valid(),
		Hash:   snap.Hash,
		Issues: issues,
	}
	for _, is := range issues {
		if is.Severity == lca.SeverityError {
			resp.Errors++
		} else {
			resp.Warnings++
		}
	}
	if resp.Issues == nil {
		resp.Issues = []lca.Issue{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Scenario returns one scenario by key.
func (h *Handlers) Scenario(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentOrError(w)
	if !ok {
		return
	}

	key := chi.URLParam(r, "key")
	sc, found := snap.Metadata.Scenario(key)
	if !found {
		http.Error(w, fmt.Sprintf("scenario %q not found", key), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, ScenarioResponse{
		Key:      key,
		Title:    sc.Title,
		Filename: sc.Filename,
		Default:  key == snap.Metadata.DefaultScenario,
	})
}

// ScenarioData streams the results file of a scenario from the data directory.
func (h *Handlers) ScenarioData(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentOrError(w)
	if !ok {
		return
	}

	key := chi.URLParam(r, "key")
	sc, found := snap.Metadata.Scenario(key)
	if !found {
		http.Error(w, fmt.Sprintf("scenario %q not found", key), http.StatusNotFound)
		return
	}

	// os.Root rejects names that escape the data directory.
	root, err := os.OpenRoot(h.dataDir)
	if err != nil {
		h.logger.Error("failed to open data directory", "dir", h.dataDir, "error", err)
		http.Error(w, "data directory unavailable", http.StatusInternalServerError)
		return
	}
	defer func() { _ = root.Close() }()

	f, err := root.Open(filepath.FromSlash(sc.Filename))
	if err != nil {
		h.logger.Debug("scenario file not served", "scenario", key, "file", sc.Filename, "error", err)
		http.Error(w, fmt.Sprintf("results file for scenario %q not found", key), http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, fmt.Sprintf("results file for scenario %q not found", key), http.StatusNotFound)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// shell renders the replaceable part of the viewer through the mounted
// application, so plugin values reach the views.
func (h *Handlers) shell(selected string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		snap, _ := h.loader.Current()
		ctx = views.WithState(ctx, views.State{Snapshot: snap, Selected: selected, Partial: true})
		return h.app.Component().Render(ctx, w)
	})
}

func (h *Handlers) selectedScenario(r *http.Request) string {
	session, err := h.sessionStore.Get(r, SessionName)
	if err != nil {
		return ""
	}
	s, _ := session.Values[sessionKeyScenario].(string)
	return s
}

func (h *Handlers) currentOrError(w http.ResponseWriter) (*metadata.Snapshot, bool) {
	snap, err := h.loader.Current()
	if errors.Is(err, metadata.ErrNoSnapshot) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return snap, true
}

// writeJSON encodes v before writing headers so an encoding failure still
// produces an error status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
