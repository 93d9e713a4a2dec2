// Package views renders the LCA metadata viewer.
package views

//go:generate templ generate

import (
	"context"
	"errors"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/lcaview/internal/metadata"
)

// ShellID is the id of the element replaced on live updates.
const ShellID = "lca-shell"

// State is the per-request input of the page.
type State struct {
	Snapshot *metadata.Snapshot
	Selected string
	// Partial renders only the shell element for SSE patches.
	Partial bool
}

type stateKey struct{}

// WithState attaches the page state to ctx.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// StateFromContext returns the page state attached to ctx.
func StateFromContext(ctx context.Context) (State, bool) {
	s, ok := ctx.Value(stateKey{}).(State)
	return s, ok
}

// Page renders Root or Shell from the state in the render context. It is
// the root component mounted once at startup.
func Page() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s, ok := StateFromContext(ctx)
		if !ok {
			return errors.New("views: no page state in context")
		}
		if s.Partial {
			return Shell(s.Snapshot, s.Selected).Render(ctx, w)
		}
		return Root(s.Snapshot, s.Selected).Render(ctx, w)
	})
}
