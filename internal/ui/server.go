// Package ui provides the web-based LCA metadata viewer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/lcaview/internal/config"
	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/state"
	"github.com/leapstack-labs/lcaview/internal/ui/app"
	"github.com/leapstack-labs/lcaview/internal/ui/bootstrap"
	"github.com/leapstack-labs/lcaview/internal/ui/notifier"
	"github.com/leapstack-labs/lcaview/internal/ui/resources"
	"github.com/leapstack-labs/lcaview/internal/ui/router"
	"github.com/leapstack-labs/lcaview/internal/ui/views"
)

// Server is the main UI server.
type Server struct {
	loader       *metadata.Loader
	store        state.Store
	sessionStore *sessions.CookieStore
	document     *app.Document
	app          *bootstrap.Handle
	cfg          *config.UIConfig
	dataDir      string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Loader  *metadata.Loader
	Store   state.Store // optional revision history
	UI      *config.UIConfig
	DataDir string
	Logger  *slog.Logger
}

// NewServer creates the host document, mounts the viewer onto it and wires
// metadata reloads to the revision history and connected browsers.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Loader == nil {
		return nil, errors.New("metadata loader is required")
	}
	uiCfg := cfg.UI
	if uiCfg == nil {
		uiCfg = config.DefaultUIConfig()
	}
	if err := uiCfg.Validate(); err != nil {
		return nil, err
	}
	if uiCfg.SessionSecret == "" {
		return nil, errors.New("session secret is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(uiCfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	doc := app.NewDocument(uiCfg.Title, uiCfg.Anchor)
	if err := doc.LoadModule(resources.DatastarScriptURL); err != nil {
		return nil, fmt.Errorf("failed to load datastar: %w", err)
	}

	handle, err := bootstrap.Initialize(doc, views.Page(), uiCfg.Anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize viewer: %w", err)
	}

	s := &Server{
		loader:       cfg.Loader,
		store:        cfg.Store,
		sessionStore: sessionStore,
		document:     doc,
		app:          handle,
		cfg:          uiCfg,
		dataDir:      cfg.DataDir,
		logger:       logger,
		notifier:     notifier.New(),
	}
	cfg.Loader.OnLoad(s.onLoad)

	return s, nil
}

// onLoad records the revision and pushes the new shell to browsers.
func (s *Server) onLoad(snap *metadata.Snapshot) {
	if s.store != nil {
		written, err := s.store.RecordRevision(state.RevisionFromSnapshot(snap))
		if err != nil {
			s.logger.Error("failed to record metadata revision", "hash", snap.Hash, "error", err)
		} else if written {
			s.logger.Debug("recorded metadata revision", "hash", snap.Hash)
		}
	}
	s.notifier.Broadcast()
}

// Handler builds the HTTP handler with middleware and all routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := router.Deps{
		App:          s.app,
		Loader:       s.loader,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		DataDir:      s.dataDir,
		Logger:       s.logger,
		IsDev:        s.IsDev(),
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve loads the metadata, starts the UI server and blocks until the
// context is cancelled. A metadata file that cannot be loaded at startup
// is fatal.
func (s *Server) Serve(ctx context.Context) error {
	if _, err := s.loader.Load(); err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.cfg.Port))

	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener until the context is
// cancelled. The metadata must already be loaded.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if enabled
	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		s.notifier.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if assets are served from the source tree.
func (s *Server) IsDev() bool {
	return resources.DevMode
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Document returns the host document the viewer is mounted on.
func (s *Server) Document() *app.Document {
	return s.document
}

// Reload re-reads the metadata file. A failed reload keeps the current
// snapshot.
func (s *Server) Reload() error {
	if _, err := s.loader.Load(); err != nil {
		s.logger.Error("metadata reload failed", "path", s.loader.Path(), "error", err)
		return err
	}
	return nil
}

// watchFiles watches the metadata file for changes. The parent directory is
// watched so editors that replace the file on save are still picked up.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	path := s.loader.Path()
	dir, name := filepath.Dir(path), filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch metadata directory", "dir", dir, "error", err)
		// Don't fail - continue without watching
	}

	// Debounce timer
	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != name {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(s.cfg.WatchDebounce, func() {
				s.logger.Debug("metadata changed, reloading", "file", event.Name)
				_ = s.Reload()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
