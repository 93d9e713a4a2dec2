package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lcaview/internal/cli/config"
	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	NoHistory bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the LCA metadata viewer",
		Long: `Start a local web server showing the project metadata.

The viewer shows:
- The goal and scope of the assessment
- The scenarios, with a selector for the active one
- The default impact categories with labels, colors and factors
- Validation warnings

The metadata file is watched and connected browsers update on save.`,
		Example: `  # Start the viewer on the default port
  lcaview serve

  # Start on a custom port
  lcaview serve --port 3000

  # Start without auto-opening the browser
  lcaview serve --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload when the metadata file changes")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Don't record metadata revisions")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	// CLI flags override config file
	override := &config.UIConfig{Port: opts.Port}
	uiCfg := *config.MergeUIConfig(cfg.GetUIConfig(), override)
	if opts.NoBrowser {
		uiCfg.AutoOpen = false
	}
	if cmd.Flags().Changed("watch") {
		uiCfg.Watch = opts.Watch
	}
	if uiCfg.SessionSecret == "" {
		secret, err := generateSessionSecret()
		if err != nil {
			return err
		}
		uiCfg.SessionSecret = secret
	}

	if err := cfg.ValidateFiles(); err != nil {
		return err
	}

	serverCfg := ui.Config{
		Loader:  metadata.NewLoader(cfg.Metadata, logger),
		UI:      &uiCfg,
		DataDir: cfg.DataDir,
		Logger:  logger,
	}

	if !opts.NoHistory {
		store, err := cmdCtx.OpenStore()
		if err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		defer func() { _ = store.Close() }()
		serverCfg.Store = store
	}

	server, err := ui.NewServer(serverCfg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if uiCfg.AutoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Info("Starting viewer on " + url)
	r.Muted("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// generateSessionSecret returns LCAVIEW_SESSION_SECRET when set and a random
// per-process secret otherwise. A random secret invalidates sessions on
// restart.
func generateSessionSecret() (string, error) {
	if secret := os.Getenv("LCAVIEW_SESSION_SECRET"); secret != "" {
		return secret, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
