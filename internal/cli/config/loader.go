package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/lcaview/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// EnvPrefix is the prefix of environment variables read into the config.
// A double underscore separates nested keys: LCAVIEW_UI__PORT -> ui.port.
const EnvPrefix = "LCAVIEW_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// pathFlags maps path-valued flags to their config keys.
var pathFlags = map[string]string{
	"metadata": "metadata",
	"data-dir": "data_dir",
	"state":    "state_path",
}

// inferProjectRoot determines the project root from CLI flags and filesystem.
// Priority:
//  1. Explicit --project-dir flag
//  2. Directory of an explicit config file
//  3. Search upward from CWD for lcaview.yaml
//  4. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if flags != nil {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" && flags.Changed("project-dir") {
			if abs, err := filepath.Abs(projectDir); err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}
	}

	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if root := sharedcfg.FindProjectRoot(cwd); root != "" {
			return root
		}
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile, flags)

	// Paths given as flags are relative to CWD, not to the project root.
	flagPaths := make(map[string]string)
	if flags != nil {
		for flagName, key := range pathFlags {
			if flags.Lookup(flagName) == nil || !flags.Changed(flagName) {
				continue
			}
			if v, _ := flags.GetString(flagName); v != "" {
				abs, err := filepath.Abs(v)
				if err != nil {
					abs = v
				}
				flagPaths[key] = abs
			}
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"metadata":            DefaultMetadataFile,
		"data_dir":            DefaultDataDir,
		"state_path":          DefaultStateFile,
		"environment":         DefaultEnv,
		"verbose":             false,
		"output":              DefaultOutput,
		"ui.port":             sharedcfg.DefaultPort,
		"ui.anchor":           sharedcfg.DefaultAnchor,
		"ui.title":            sharedcfg.DefaultTitle,
		"ui.watch":            true,
		"ui.auto_open":        true,
		"ui.shutdown_timeout": sharedcfg.DefaultShutdownTimeout.String(),
		"ui.watch_debounce":   sharedcfg.DefaultWatchDebounce.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = sharedcfg.FindConfigFile(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LCAVIEW_ prefix)
	// Transform: LCAVIEW_DATA_DIR -> data_dir, LCAVIEW_UI__PORT -> ui.port
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch key {
			case "state":
				return "state_path", posflag.FlagVal(flags, f)
			case "env":
				return "environment", posflag.FlagVal(flags, f)
			case "config", "project_dir":
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Apply the selected environment's overrides
	if envCfg, ok := cfg.Environments[cfg.Environment]; ok {
		applyEnvOverrides(&cfg, envCfg)
	}

	// 7. Set project root and resolve relative paths
	cfg.ProjectRoot = projectRoot
	cfg.Metadata = resolveConfigPath(cfg.Metadata, flagPaths["metadata"], projectRoot)
	cfg.DataDir = resolveConfigPath(cfg.DataDir, flagPaths["data_dir"], projectRoot)
	cfg.StatePath = resolveConfigPath(cfg.StatePath, flagPaths["state_path"], projectRoot)

	cfg.UI = cfg.GetUIConfig()
	cfg.UI.SessionSecret = expandEnvVars(cfg.UI.SessionSecret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

func resolveConfigPath(value, fromFlag, root string) string {
	if fromFlag != "" {
		return fromFlag
	}
	return resolvePathRelativeTo(value, root)
}

// applyEnvOverrides merges non-zero fields of an environment block.
func applyEnvOverrides(cfg *Config, envCfg EnvConfig) {
	if envCfg.Metadata != "" {
		cfg.Metadata = envCfg.Metadata
	}
	if envCfg.DataDir != "" {
		cfg.DataDir = envCfg.DataDir
	}
	cfg.UI = MergeUIConfig(cfg.UI, envCfg.UI)
}

// MergeUIConfig merges two UI configs, with override taking precedence for
// non-zero fields. Boolean fields cannot be unset by an override.
func MergeUIConfig(base, override *UIConfig) *UIConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Anchor != "" {
		merged.Anchor = override.Anchor
	}
	if override.Title != "" {
		merged.Title = override.Title
	}
	if override.SessionSecret != "" {
		merged.SessionSecret = override.SessionSecret
	}
	if override.ShutdownTimeout != 0 {
		merged.ShutdownTimeout = override.ShutdownTimeout
	}
	if override.WatchDebounce != 0 {
		merged.WatchDebounce = override.WatchDebounce
	}
	merged.Watch = merged.Watch || override.Watch
	merged.AutoOpen = merged.AutoOpen || override.AutoOpen
	return &merged
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}
