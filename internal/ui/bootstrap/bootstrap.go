// Package bootstrap is the entry point of the viewer UI. It builds the single
// application instance, installs the tooltip plugin, loads the style sheets
// and mounts the root view onto the page anchor.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/lcaview/internal/ui/app"
	"github.com/leapstack-labs/lcaview/internal/ui/resources"
	"github.com/leapstack-labs/lcaview/internal/ui/tooltip"
)

// ErrNotRenderable is returned by Handle.Render when the instance cannot
// render a page.
var ErrNotRenderable = errors.New("application instance cannot render")

// Handle refers to the mounted application.
type Handle struct {
	inst   app.Instance
	anchor string
}

// Initialize loads the project style sheet, creates the application around
// root, installs the tooltip plugin and mounts onto #anchor. Errors are
// returned as-is; nothing is retried.
func Initialize(rt app.Runtime, root templ.Component, anchor string, opts ...tooltip.Option) (*Handle, error) {
	if err := rt.LoadStylesheet(resources.StylePath); err != nil {
		return nil, fmt.Errorf("failed to load stylesheet: %w", err)
	}

	inst := rt.CreateApp(root)

	if err := inst.Use(tooltip.New(opts...)); err != nil {
		return nil, err
	}

	if err := inst.Mount("#" + anchor); err != nil {
		return nil, err
	}

	return &Handle{inst: inst, anchor: anchor}, nil
}

// Instance returns the application instance.
func (h *Handle) Instance() app.Instance {
	return h.inst
}

// Anchor returns the id of the element the application is mounted on.
func (h *Handle) Anchor() string {
	return h.anchor
}

// Render writes the full host page.
func (h *Handle) Render(ctx context.Context, w io.Writer) error {
	r, ok := h.inst.(templ.Component)
	if !ok {
		return ErrNotRenderable
	}
	return r.Render(ctx, w)
}

// Component returns the mounted root view with plugin values injected, for
// partial updates of the anchor element.
func (h *Handle) Component() templ.Component {
	if c, ok := h.inst.(interface{ Component() templ.Component }); ok {
		return c.Component()
	}
	return templ.NopComponent
}

// Plugins returns the names of the installed plugins.
func (h *Handle) Plugins() []string {
	if p, ok := h.inst.(interface{ Plugins() []string }); ok {
		return p.Plugins()
	}
	return nil
}
