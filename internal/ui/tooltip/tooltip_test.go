package tooltip

import (
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lcaview/internal/ui/app"
	"github.com/leapstack-labs/lcaview/internal/ui/resources"
)

func TestNew_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want Config
	}{
		{"defaults", nil, DefaultConfig()},
		{
			name: "all options",
			opts: []Option{WithPlacement(PlacementBottom), WithDelay(50*time.Millisecond, 0), WithTheme("light")},
			want: Config{Placement: PlacementBottom, ShowDelay: 50 * time.Millisecond, HideDelay: 0, Theme: "light"},
		},
		{
			name: "invalid values ignored",
			opts: []Option{WithPlacement("diagonal"), WithTheme("neon"), WithDelay(-time.Second, -time.Second)},
			want: Config{Placement: PlacementTop, Theme: "dark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.opts...).Config())
		})
	}
}

func TestPlugin_Install(t *testing.T) {
	doc := app.NewDocument("test")
	a := app.NewApp(doc, templ.NopComponent)

	require.NoError(t, a.Use(New(WithTheme("light"))))

	assert.Equal(t, []string{PluginName}, a.Plugins())
	assert.Equal(t, []string{resources.TooltipStylePath}, doc.Stylesheets())
	assert.Equal(t, []app.Script{{Src: resources.TooltipScriptPath}}, doc.Scripts())

	v, ok := a.Inject(ContextKey)
	require.True(t, ok)
	assert.Equal(t, "light", v.(Config).Theme)
}

func TestAttrs(t *testing.T) {
	t.Run("without plugin", func(t *testing.T) {
		assert.Empty(t, Attrs(context.Background(), "hello", PlacementTop))
	})

	ctx := app.WithValues(context.Background(), map[any]any{
		ContextKey: Config{Placement: PlacementRight, ShowDelay: 20 * time.Millisecond, Theme: "dark"},
	})

	t.Run("empty content", func(t *testing.T) {
		assert.Empty(t, Attrs(ctx, "", PlacementTop))
	})

	t.Run("default placement", func(t *testing.T) {
		attrs := Attrs(ctx, "Global warming potential", "")
		assert.Equal(t, "Global warming potential", attrs["data-tooltip"])
		assert.Equal(t, "right", attrs["data-tooltip-placement"])
		assert.Equal(t, "20", attrs["data-tooltip-show-delay"])
		assert.Equal(t, "0", attrs["data-tooltip-hide-delay"])
	})

	t.Run("explicit placement", func(t *testing.T) {
		attrs := Attrs(ctx, "x", PlacementLeft)
		assert.Equal(t, "left", attrs["data-tooltip-placement"])
	})
}
