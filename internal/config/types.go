// Package config provides shared configuration types for lcaview.
// It is decoupled from CLI concerns so the UI server can be configured
// without importing the command packages.
package config

import (
	"fmt"
	"regexp"
	"time"
)

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port            int           `koanf:"port"`
	Anchor          string        `koanf:"anchor"`
	Title           string        `koanf:"title"`
	Watch           bool          `koanf:"watch"`
	AutoOpen        bool          `koanf:"auto_open"`
	SessionSecret   string        `koanf:"session_secret"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	WatchDebounce   time.Duration `koanf:"watch_debounce"`
}

var anchorPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Validate checks that the UI configuration can be served.
func (c *UIConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("ui.port must be between 0 and 65535, got %d", c.Port)
	}
	if !anchorPattern.MatchString(c.Anchor) {
		return fmt.Errorf("ui.anchor must be a valid element id, got %q", c.Anchor)
	}
	return nil
}
