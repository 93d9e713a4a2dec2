package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/a-h/templ"
)

// DefaultAnchor is the element id a document provides when none are given.
const DefaultAnchor = "app"

// Script is a script reference in the document head.
type Script struct {
	Src    string
	Module bool
}

// Document is the server-rendered host page. It owns the style sheets and
// scripts of the page and the anchor elements applications mount into.
type Document struct {
	mu          sync.RWMutex
	title       string
	lang        string
	stylesheets []string
	scripts     []Script
	anchors     []string
	mounted     map[string]templ.Component
}

// NewDocument creates a host document whose body contains one empty element
// per anchor id, in order.
func NewDocument(title string, anchors ...string) *Document {
	if len(anchors) == 0 {
		anchors = []string{DefaultAnchor}
	}
	return &Document{
		title:   title,
		lang:    "en",
		anchors: slices.Compact(slices.Clone(anchors)),
		mounted: make(map[string]templ.Component),
	}
}

// Title returns the page title.
func (d *Document) Title() string {
	return d.title
}

// LoadStylesheet adds a style sheet link to the head. Repeated hrefs are
// loaded once.
func (d *Document) LoadStylesheet(href string) error {
	if href == "" {
		return errors.New("stylesheet href is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.stylesheets, href) {
		d.stylesheets = append(d.stylesheets, href)
	}
	return nil
}

// LoadScript adds a deferred classic script to the head.
func (d *Document) LoadScript(src string) error {
	return d.addScript(Script{Src: src})
}

// LoadModule adds an ES module script to the head.
func (d *Document) LoadModule(src string) error {
	return d.addScript(Script{Src: src, Module: true})
}

func (d *Document) addScript(s Script) error {
	if s.Src == "" {
		return errors.New("script src is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.scripts {
		if existing.Src == s.Src {
			return nil
		}
	}
	d.scripts = append(d.scripts, s)
	return nil
}

// Stylesheets returns the loaded style sheets in load order.
func (d *Document) Stylesheets() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.stylesheets)
}

// Scripts returns the loaded scripts in load order.
func (d *Document) Scripts() []Script {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.scripts)
}

// HasAnchor reports whether the body contains an element with the given id.
func (d *Document) HasAnchor(id string) bool {
	return slices.Contains(d.anchors, id)
}

// CreateApp creates an application instance bound to this document.
func (d *Document) CreateApp(root templ.Component) Instance {
	return NewApp(d, root)
}

// attach renders component inside the anchor element from now on.
func (d *Document) attach(id string, component templ.Component) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.anchors, id) {
		return fmt.Errorf("%w: #%s", ErrAnchorNotFound, id)
	}
	if _, taken := d.mounted[id]; taken {
		return fmt.Errorf("%w: #%s already hosts an application", ErrAlreadyMounted, id)
	}
	d.mounted[id] = component
	return nil
}

type anchorView struct {
	id      string
	content templ.Component
}

type documentView struct {
	lang        string
	title       string
	stylesheets []string
	scripts     []Script
	anchors     []anchorView
}

// Render writes the full HTML page.
func (d *Document) Render(ctx context.Context, w io.Writer) error {
	d.mu.RLock()
	view := documentView{
		lang:        d.lang,
		title:       d.title,
		stylesheets: slices.Clone(d.stylesheets),
		scripts:     slices.Clone(d.scripts),
	}
	for _, id := range d.anchors {
		view.anchors = append(view.anchors, anchorView{id: id, content: mountedAt(id, d.mounted[id])})
	}
	d.mu.RUnlock()

	return documentPage(view).Render(ctx, w)
}

// mountedAt names the anchor in render errors of the component mounted
// there. Empty anchors render nothing.
func mountedAt(id string, c templ.Component) templ.Component {
	if c == nil {
		return templ.NopComponent
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := c.Render(ctx, w); err != nil {
			return fmt.Errorf("failed to render #%s: %w", id, err)
		}
		return nil
	})
}
