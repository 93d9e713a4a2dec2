package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/internal/testutil"
	"github.com/leapstack-labs/lcaview/internal/ui/app"
	"github.com/leapstack-labs/lcaview/internal/ui/tooltip"
)

func sampleSnapshot(t *testing.T) *metadata.Snapshot {
	t.Helper()
	snap, err := metadata.FromBytes([]byte(testutil.SampleMetadataJSON), "metadata.json")
	require.NoError(t, err)
	return snap
}

func renderString(t *testing.T, ctx context.Context, snap *metadata.Snapshot, selected string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Root(snap, selected).Render(ctx, &buf))
	return buf.String()
}

func TestRoot(t *testing.T) {
	html := renderString(t, context.Background(), sampleSnapshot(t), "")

	assert.Contains(t, html, `<h1>Residential heating</h1>`)
	assert.Contains(t, html, `id="lca-shell"`)
	assert.Contains(t, html, `data-init="@get('/updates')"`)
	assert.Contains(t, html, `data-signals="{&#34;scenario&#34;:&#34;base&#34;}"`)
	assert.Contains(t, html, "<p>Compare <strong>heat pumps</strong> and gas boilers.</p>")

	// Scenario selector: sorted keys, default selected and marked.
	assert.Less(t, strings.Index(html, `data-scenario="base"`), strings.Index(html, `data-scenario="green"`))
	assert.Contains(t, html, `data-scenario="base" aria-pressed="true"`)
	assert.Contains(t, html, `data-scenario="green" aria-pressed="false"`)
	assert.Contains(t, html, `Baseline <span class="lca-default-marker">(default)</span></button>`)
	assert.Contains(t, html, `href="/data/green">green.json</a>`)
	assert.Contains(t, html, `data-on:click="$scenario = &#34;green&#34;; @post(&#39;/scenario&#39;)"`)
	assert.Contains(t, html, `data-attr:aria-pressed="String($scenario === &#34;green&#34;)"`)

	// Legend follows defaultImpactCategories order.
	assert.Less(t, strings.Index(html, `data-category="gwp"`), strings.Index(html, `data-category="ap"`))
	assert.Contains(t, html, `style="background-color:#d62728;"`)
	assert.Contains(t, html, `<td class="lca-number">8100</td>`)
	assert.Contains(t, html, `<td class="lca-number">55.6</td>`)
	assert.Contains(t, html, "kg CO2-eq")

	// Defaults.
	assert.Contains(t, html, "<dt>Years</dt><dd>2020-2030</dd>")
	assert.Contains(t, html, "<dt>Alternatives</dt><dd>2</dd>")
	assert.Contains(t, html, "<dt>Axis limit (zoomed)</dt><dd>0.05</dd>")

	// No tooltip plugin in context.
	assert.NotContains(t, html, "data-tooltip")
	assert.NotContains(t, html, "lca-warnings")
}

func TestRoot_SelectedScenario(t *testing.T) {
	snap := sampleSnapshot(t)

	html := renderString(t, context.Background(), snap, "green")
	assert.Contains(t, html, `data-scenario="green" aria-pressed="true"`)
	assert.Contains(t, html, `data-scenario="base" aria-pressed="false"`)

	html = renderString(t, context.Background(), snap, "unknown")
	assert.Contains(t, html, `data-scenario="base" aria-pressed="true"`)
}

func TestRoot_Tooltips(t *testing.T) {
	ctx := app.WithValues(context.Background(), map[any]any{
		tooltip.ContextKey: tooltip.DefaultConfig(),
	})

	html := renderString(t, ctx, sampleSnapshot(t), "")
	assert.Contains(t, html, `data-tooltip="Global warming potential"`)
	assert.Contains(t, html, `data-tooltip-placement="right"`)
}

func TestShell_EscapesAndWarnings(t *testing.T) {
	snap := sampleSnapshot(t)
	m := snap.Metadata.Clone()
	m.ProjectName = `<script>alert("x")</script>`
	m.Colors["gwp"] = `red"; onmouseover="x`
	snap = &metadata.Snapshot{Metadata: m, Issues: m.Issues()}

	var buf bytes.Buffer
	require.NoError(t, Shell(snap, "base").Render(context.Background(), &buf))
	html := buf.String()

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, `onmouseover="`)
	assert.Contains(t, html, "lca-warnings")
	assert.Contains(t, html, "unrecognized color")
	assert.True(t, strings.HasPrefix(html, `<div id="lca-shell"`))
}

func TestRoot_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Root(sampleSnapshot(t), "").Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestShell_NoSnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Shell(nil, "").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No metadata loaded.")
}

func TestPage(t *testing.T) {
	snap := sampleSnapshot(t)

	var buf bytes.Buffer
	assert.Error(t, Page().Render(context.Background(), &buf))

	buf.Reset()
	require.NoError(t, Page().Render(WithState(context.Background(), State{Snapshot: snap}), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), `<div class="lca-root"`))

	buf.Reset()
	require.NoError(t, Page().Render(WithState(context.Background(), State{Snapshot: snap, Partial: true}), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), `<div id="lca-shell"`))
}

func TestSelectedScenario(t *testing.T) {
	snap := sampleSnapshot(t)
	assert.Equal(t, "green", SelectedScenario(snap, "green"))
	assert.Equal(t, "base", SelectedScenario(snap, ""))
	assert.Equal(t, "base", SelectedScenario(snap, "nope"))
	assert.Equal(t, "x", SelectedScenario(nil, "x"))
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Compare heating systems", "Compare heating systems"},
		{"formatting kept", "<p>Compare <strong>heat pumps</strong>.</p>", "<p>Compare <strong>heat pumps</strong>.</p>"},
		{"script dropped", `<p>a</p><script>alert(1)</script>`, "<p>a</p>"},
		{"nested script dropped", `<div><em>b</em><script>alert(1)</script></div>`, "<div><em>b</em></div>"},
		{"event handler dropped", `<p onclick="alert(1)" class="x">c</p>`, `<p class="x">c</p>`},
		{"javascript url dropped", `<a href=" JavaScript:alert(1)">d</a>`, "<a>d</a>"},
		{"http url kept", `<a href="https://example.org/lca">e</a>`, `<a href="https://example.org/lca">e</a>`},
		{"data url dropped", `<a href="data:text/html,&lt;script&gt;alert(1)&lt;/script&gt;">g</a>`, "<a>g</a>"},
		{"data init dropped", `<p data-init="alert(document.cookie)">h</p>`, "<p>h</p>"},
		{"data on click dropped", `<button data-on:click="@post('/scenario')" type="button">i</button>`, `<button type="button">i</button>`},
		{"data signals dropped", `<div data-signals="{scenario: 'x'}" class="y">j</div>`, `<div class="y">j</div>`},
		{"comment dropped", "<!-- note -->f", "f"},
		{"text escaped", "1 < 2 & 3", "1 &lt; 2 &amp; 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeHTML(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoot_GoalScopeSanitized(t *testing.T) {
	snap := sampleSnapshot(t)
	m := snap.Metadata.Clone()
	m.GoalScopeDescription = `<p onmouseover="steal()" data-init="steal()">Scope</p><script>steal()</script>`
	snap = &metadata.Snapshot{Metadata: m}

	html := renderString(t, context.Background(), snap, "")
	assert.Contains(t, html, "<p>Scope</p>")
	assert.NotContains(t, html, "steal()")
}
