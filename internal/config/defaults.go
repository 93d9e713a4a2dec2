package config

import "time"

// Default configuration values.
const (
	DefaultMetadataFile    = "metadata.json"
	DefaultDataDir         = "data"
	DefaultStateFile       = ".lcaview/state.db"
	DefaultPort            = 8765
	DefaultAnchor          = "app"
	DefaultTitle           = "LCA Viewer"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultWatchDebounce   = 100 * time.Millisecond
)

// ApplyUIDefaults fills unset UIConfig fields. Boolean fields are left alone.
func ApplyUIDefaults(c *UIConfig) {
	if c == nil {
		return
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Anchor == "" {
		c.Anchor = DefaultAnchor
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = DefaultWatchDebounce
	}
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	c := &UIConfig{
		AutoOpen: true,
		Watch:    true,
	}
	ApplyUIDefaults(c)
	return c
}
