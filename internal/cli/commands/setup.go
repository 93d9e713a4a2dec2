package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lcaview/internal/cli/config"
	"github.com/leapstack-labs/lcaview/internal/cli/output"
	"github.com/leapstack-labs/lcaview/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenStore opens and migrates the revision history database.
// The caller must close the returned store.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return store, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		Metadata:     getEnvOrDefault("LCAVIEW_METADATA", config.DefaultMetadataFile),
		DataDir:      getEnvOrDefault("LCAVIEW_DATA_DIR", config.DefaultDataDir),
		StatePath:    getEnvOrDefault("LCAVIEW_STATE_PATH", config.DefaultStateFile),
		Environment:  getEnvOrDefault("LCAVIEW_ENVIRONMENT", config.DefaultEnv),
		Verbose:      os.Getenv("LCAVIEW_VERBOSE") == "true",
		OutputFormat: os.Getenv("LCAVIEW_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
