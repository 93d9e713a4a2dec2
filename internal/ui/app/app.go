// Package app hosts UI applications inside a server-rendered document.
//
// A Document is the host page. An App wraps a root view component, installs
// plugins, and mounts onto one anchor element of the document. Values a
// plugin provides are injected into the render context of the root view.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// Sentinel errors returned by App.
var (
	ErrAlreadyMounted  = errors.New("application already mounted")
	ErrAnchorNotFound  = errors.New("mount anchor not found")
	ErrInvalidSelector = errors.New("invalid mount selector")
	ErrNotMounted      = errors.New("application not mounted")
)

// Runtime creates application instances and loads page-wide style sheets.
type Runtime interface {
	LoadStylesheet(href string) error
	CreateApp(root templ.Component) Instance
}

// Instance is a single application wrapping a root component.
type Instance interface {
	Use(p Plugin) error
	Mount(selector string) error
}

// Host is what a plugin can reach while it is installed.
type Host interface {
	LoadStylesheet(href string) error
	LoadScript(src string) error
	Provide(key, value any) error
}

// Plugin extends an application before it is mounted.
type Plugin interface {
	Name() string
	Install(h Host) error
}

// App is the concrete Instance backed by a Document.
type App struct {
	mu       sync.RWMutex
	doc      *Document
	root     templ.Component
	plugins  []string
	provided map[any]any
	anchor   string
	mounted  bool
}

// NewApp creates an application for root hosted in doc.
func NewApp(doc *Document, root templ.Component) *App {
	return &App{
		doc:      doc,
		root:     root,
		provided: make(map[any]any),
	}
}

// Use installs a plugin. A plugin whose name is already installed is skipped.
func (a *App) Use(p Plugin) error {
	if p == nil {
		return errors.New("plugin is nil")
	}

	a.mu.RLock()
	mounted := a.mounted
	installed := a.hasPlugin(p.Name())
	a.mu.RUnlock()

	if mounted {
		return fmt.Errorf("%w: cannot install plugin %q", ErrAlreadyMounted, p.Name())
	}
	if installed {
		return nil
	}

	if err := p.Install(a); err != nil {
		return fmt.Errorf("failed to install plugin %q: %w", p.Name(), err)
	}

	a.mu.Lock()
	a.plugins = append(a.plugins, p.Name())
	a.mu.Unlock()
	return nil
}

func (a *App) hasPlugin(name string) bool {
	for _, n := range a.plugins {
		if n == name {
			return true
		}
	}
	return false
}

// Plugins returns the installed plugin names in install order.
func (a *App) Plugins() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.plugins...)
}

// LoadStylesheet adds a style sheet to the host document.
func (a *App) LoadStylesheet(href string) error {
	return a.doc.LoadStylesheet(href)
}

// LoadScript adds a script to the host document.
func (a *App) LoadScript(src string) error {
	return a.doc.LoadScript(src)
}

// Provide makes value available to the root view under key.
func (a *App) Provide(key, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mounted {
		return fmt.Errorf("%w: cannot provide %v", ErrAlreadyMounted, key)
	}
	a.provided[key] = value
	return nil
}

// Inject returns a value provided to the application.
func (a *App) Inject(key any) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.provided[key]
	return v, ok
}

// Mount attaches the application to the element matching selector.
// Only id selectors ("#app") are supported.
func (a *App) Mount(selector string) error {
	id, ok := strings.CutPrefix(selector, "#")
	if !ok || id == "" || strings.ContainsAny(id, " .#[>") {
		return fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mounted {
		return fmt.Errorf("%w on #%s", ErrAlreadyMounted, a.anchor)
	}
	if err := a.doc.attach(id, a.component()); err != nil {
		return err
	}
	a.mounted = true
	a.anchor = id
	return nil
}

// Mounted reports whether Mount succeeded.
func (a *App) Mounted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mounted
}

// Anchor returns the id of the mount element, empty before mount.
func (a *App) Anchor() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.anchor
}

// Component returns the root view with provided values injected into the
// render context.
func (a *App) Component() templ.Component {
	return a.component()
}

func (a *App) component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return a.root.Render(withProvided(ctx, a), w)
	})
}

// Render writes the host document once the application is mounted.
func (a *App) Render(ctx context.Context, w io.Writer) error {
	if !a.Mounted() {
		return ErrNotMounted
	}
	return a.doc.Render(ctx, w)
}
