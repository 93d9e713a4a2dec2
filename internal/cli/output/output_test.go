package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTestRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestNewRendererWithTTY_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	r, out, _ := newTestRenderer(ModeText, true)
	assert.True(t, r.IsTTY())
	assert.Equal(t, ModeText, r.EffectiveMode())

	r.Success("metadata is valid")
	assert.Equal(t, "✓ metadata is valid\n", out.String())
}

func TestRenderer_Header(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Scenarios")
	assert.Equal(t, "## Scenarios\n\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	r.Header(1, "Scenarios")
	assert.Equal(t, "Scenarios\n", out.String())
}

func TestRenderer_Messages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Success("metadata is valid")
	r.Warning("no description")
	r.Error("unresolved scenario key")

	assert.Equal(t, "✓ metadata is valid\n", out.String())
	assert.Contains(t, errOut.String(), "! no description")
	assert.Contains(t, errOut.String(), "✗ unresolved scenario key")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"scenarios": 2}))
	assert.JSONEq(t, `{"scenarios": 2}`, out.String())
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Key", "Title"}
	rows := [][]string{{"base", "Baseline"}, {"green", "Green grid"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "| Key | Title |")
		assert.Contains(t, out.String(), "| green | Green grid |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "Baseline")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **Default scenario:** base", FormatKeyValue("Default scenario", "base"))
}
