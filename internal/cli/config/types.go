// Package config provides configuration management for the lcaview CLI.
//
// This package extends the shared configuration types from internal/config
// with CLI-specific fields. UIConfig is re-exported here via a type alias
// for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/lcaview/internal/config"
)

// UIConfig is an alias for the shared UI server configuration.
type UIConfig = sharedcfg.UIConfig

// Config holds all CLI configuration options.
type Config struct {
	Metadata     string               `koanf:"metadata"`
	DataDir      string               `koanf:"data_dir"`
	StatePath    string               `koanf:"state_path"`
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	UI           *UIConfig            `koanf:"ui"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Metadata string    `koanf:"metadata"`
	DataDir  string    `koanf:"data_dir"`
	UI       *UIConfig `koanf:"ui"`
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return sharedcfg.DefaultUIConfig()
	}
	sharedcfg.ApplyUIDefaults(c.UI)
	return c.UI
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultMetadataFile = sharedcfg.DefaultMetadataFile
	DefaultDataDir      = sharedcfg.DefaultDataDir
	DefaultStateFile    = sharedcfg.DefaultStateFile
	DefaultEnv          = "dev"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
