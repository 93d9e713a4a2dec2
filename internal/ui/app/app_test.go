package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPlugin struct {
	name     string
	installs int
	err      error
}

func (p *testPlugin) Name() string { return p.name }

func (p *testPlugin) Install(h Host) error {
	p.installs++
	if p.err != nil {
		return p.err
	}
	if err := h.LoadStylesheet("/static/" + p.name + ".css"); err != nil {
		return err
	}
	return h.Provide(p.name, "value-of-"+p.name)
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestApp_Use(t *testing.T) {
	doc := NewDocument("test")
	a := NewApp(doc, text("root"))

	p := &testPlugin{name: "alpha"}
	require.NoError(t, a.Use(p))
	require.NoError(t, a.Use(p), "installing twice is a no-op")
	assert.Equal(t, 1, p.installs)
	assert.Equal(t, []string{"alpha"}, a.Plugins())
	assert.Equal(t, []string{"/static/alpha.css"}, doc.Stylesheets())

	v, ok := a.Inject("alpha")
	require.True(t, ok)
	assert.Equal(t, "value-of-alpha", v)

	failing := &testPlugin{name: "broken", err: errors.New("boom")}
	err := a.Use(failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to install plugin "broken"`)
	assert.Equal(t, []string{"alpha"}, a.Plugins())

	assert.Error(t, a.Use(nil))
}

func TestApp_Mount(t *testing.T) {
	tests := []struct {
		name     string
		anchors  []string
		selector string
		wantErr  error
	}{
		{"default anchor", nil, "#app", nil},
		{"custom anchor", []string{"viewer"}, "#viewer", nil},
		{"missing anchor", nil, "#other", ErrAnchorNotFound},
		{"class selector", nil, ".app", ErrInvalidSelector},
		{"empty id", nil, "#", ErrInvalidSelector},
		{"compound selector", nil, "#app .child", ErrInvalidSelector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApp(NewDocument("test", tt.anchors...), text("root"))
			err := a.Mount(tt.selector)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, a.Mounted())
				return
			}
			require.NoError(t, err)
			assert.True(t, a.Mounted())
			assert.Equal(t, tt.selector[1:], a.Anchor())
		})
	}
}

func TestApp_MountTwice(t *testing.T) {
	a := NewApp(NewDocument("test"), text("root"))
	require.NoError(t, a.Mount("#app"))

	assert.ErrorIs(t, a.Mount("#app"), ErrAlreadyMounted)
	assert.ErrorIs(t, a.Use(&testPlugin{name: "late"}), ErrAlreadyMounted)
	assert.ErrorIs(t, a.Provide("k", "v"), ErrAlreadyMounted)
}

func TestDocument_OneAppPerAnchor(t *testing.T) {
	doc := NewDocument("test")
	require.NoError(t, NewApp(doc, text("first")).Mount("#app"))
	assert.ErrorIs(t, NewApp(doc, text("second")).Mount("#app"), ErrAlreadyMounted)
}

func TestApp_Render(t *testing.T) {
	doc := NewDocument("LCA <Viewer>", "app", "footer")
	require.NoError(t, doc.LoadStylesheet("/static/style.css"))
	require.NoError(t, doc.LoadStylesheet("/static/style.css"))
	require.NoError(t, doc.LoadModule("https://cdn.example.com/datastar.js"))

	root := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v, _ := Inject(ctx, "alpha")
		_, err := io.WriteString(w, "<p>"+v.(string)+"</p>")
		return err
	})
	a := NewApp(doc, root)

	var buf bytes.Buffer
	assert.ErrorIs(t, a.Render(context.Background(), &buf), ErrNotMounted)

	require.NoError(t, a.Use(&testPlugin{name: "alpha"}))
	require.NoError(t, a.Mount("#app"))
	require.NoError(t, a.Render(context.Background(), &buf))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, `<!doctype html><html lang="en"><head>`))
	assert.Contains(t, html, "<title>LCA &lt;Viewer&gt;</title>")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`href="/static/style.css"`)))
	assert.Contains(t, html, `<link rel="stylesheet" href="/static/alpha.css">`)
	assert.Contains(t, html, `<script type="module" src="https://cdn.example.com/datastar.js"></script>`)
	assert.Contains(t, html, `<div id="app"><p>value-of-alpha</p></div>`)
	assert.Contains(t, html, `<div id="footer"></div>`)
}

func TestDocument_RejectsUnsafeStylesheetURL(t *testing.T) {
	doc := NewDocument("test")
	require.NoError(t, doc.LoadStylesheet("javascript:alert(1)"))

	var buf bytes.Buffer
	require.NoError(t, doc.Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "javascript:")
	assert.Contains(t, buf.String(), `<link rel="stylesheet" href="about:invalid#TemplFailedSanitizationURL">`)
}

func TestApp_ComponentRenderError(t *testing.T) {
	boom := errors.New("boom")
	a := NewApp(NewDocument("test"), templ.ComponentFunc(func(context.Context, io.Writer) error {
		return boom
	}))
	require.NoError(t, a.Mount("#app"))

	err := a.Render(context.Background(), io.Discard)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "#app")
}

func TestInject_OutsideApp(t *testing.T) {
	_, ok := Inject(context.Background(), "anything")
	assert.False(t, ok)

	ctx := WithValues(context.Background(), map[any]any{"k": 1})
	v, ok := Inject(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
