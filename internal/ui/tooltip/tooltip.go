// Package tooltip is the floating tooltip plugin for viewer applications.
package tooltip

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/lcaview/internal/ui/app"
	"github.com/leapstack-labs/lcaview/internal/ui/resources"
)

// PluginName identifies the plugin on an application.
const PluginName = "tooltip"

type contextKey struct{}

// ContextKey is the key the plugin provides its Config under.
var ContextKey = contextKey{}

// Placement is where a tooltip appears relative to its target.
type Placement string

// Supported placements.
const (
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
	PlacementLeft   Placement = "left"
	PlacementRight  Placement = "right"
)

func (p Placement) valid() bool {
	switch p {
	case PlacementTop, PlacementBottom, PlacementLeft, PlacementRight:
		return true
	}
	return false
}

// Config controls how tooltips are shown.
type Config struct {
	Placement Placement
	ShowDelay time.Duration
	HideDelay time.Duration
	Theme     string
}

// DefaultConfig returns the settings used when no options are given.
func DefaultConfig() Config {
	return Config{
		Placement: PlacementTop,
		ShowDelay: 0,
		HideDelay: 100 * time.Millisecond,
		Theme:     "dark",
	}
}

// Option configures the plugin.
type Option func(*Config)

// WithPlacement sets the default placement.
func WithPlacement(p Placement) Option {
	return func(c *Config) {
		if p.valid() {
			c.Placement = p
		}
	}
}

// WithDelay sets the show and hide delays.
func WithDelay(show, hide time.Duration) Option {
	return func(c *Config) {
		c.ShowDelay = max(show, 0)
		c.HideDelay = max(hide, 0)
	}
}

// WithTheme sets the color theme ("dark" or "light").
func WithTheme(theme string) Option {
	return func(c *Config) {
		if theme == "dark" || theme == "light" {
			c.Theme = theme
		}
	}
}

// Plugin installs the tooltip assets and configuration on an application.
type Plugin struct {
	cfg Config
}

// New creates the tooltip plugin.
func New(opts ...Option) *Plugin {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Plugin{cfg: cfg}
}

// Name implements app.Plugin.
func (p *Plugin) Name() string { return PluginName }

// Config returns the plugin configuration.
func (p *Plugin) Config() Config { return p.cfg }

// Install implements app.Plugin.
func (p *Plugin) Install(h app.Host) error {
	if err := h.LoadStylesheet(resources.TooltipStylePath); err != nil {
		return err
	}
	if err := h.LoadScript(resources.TooltipScriptPath); err != nil {
		return err
	}
	return h.Provide(ContextKey, p.cfg)
}

// FromContext returns the configuration provided to the rendering application.
func FromContext(ctx context.Context) (Config, bool) {
	v, ok := app.Inject(ctx, ContextKey)
	if !ok {
		return Config{}, false
	}
	cfg, ok := v.(Config)
	return cfg, ok
}

// Attrs returns the attributes that attach a tooltip to an element. An empty
// placement uses the configured default. Without the plugin installed, or
// with empty content, no attributes are returned.
func Attrs(ctx context.Context, content string, placement Placement) templ.Attributes {
	cfg, ok := FromContext(ctx)
	if !ok || content == "" {
		return templ.Attributes{}
	}
	if !placement.valid() {
		placement = cfg.Placement
	}
	return templ.Attributes{
		"data-tooltip":            content,
		"data-tooltip-placement":  string(placement),
		"data-tooltip-theme":      cfg.Theme,
		"data-tooltip-show-delay": strconv.FormatInt(cfg.ShowDelay.Milliseconds(), 10),
		"data-tooltip-hide-delay": strconv.FormatInt(cfg.HideDelay.Milliseconds(), 10),
		"tabindex":                "0",
	}
}
