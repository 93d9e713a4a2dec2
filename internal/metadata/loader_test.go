package metadata

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lcaview/internal/testutil"
	"github.com/leapstack-labs/lcaview/pkg/lca"
)

func TestDecode_SampleDocument(t *testing.T) {
	m, err := Decode([]byte(testutil.SampleMetadataJSON))
	require.NoError(t, err)

	assert.Equal(t, "Residential heating", m.ProjectName)
	assert.Equal(t, []string{"gwp", "ap"}, m.DefaultImpactCategories)
	assert.Equal(t, []string{"2020", "2030"}, m.DefaultYears)
	assert.Equal(t, lca.Scenario{Title: "Green grid", Filename: "green.json"}, m.Scenarios["green"])
	assert.InDelta(t, 55.6, m.NormalizationFactors["ap"], 1e-9)
	assert.InDelta(t, 0.05, m.AxisLimitNormalizedZoomed, 1e-9)

	// Alternatives are kept opaque.
	require.Len(t, m.DefaultAlternatives, 2)
	assert.Equal(t, map[string]any{"name": "heat pump"}, m.DefaultAlternatives[0])
	assert.Equal(t, "gas boiler", m.DefaultAlternatives[1])

	assert.NoError(t, m.Validate())
}

const minimalYAML = `
projectName: Bikes
goalScopeDescription: Compare frames
scenarios:
  base: {title: Baseline, filename: base.json}
yearSeparator: "/"
defaultScenario: base
defaultImpactCategories: [gwp]
defaultYears: ["2024"]
defaultAlternatives: []
shortLabels: {gwp: GWP}
longLabels: {gwp: Global warming}
descriptions: {gwp: Climate}
colors: {gwp: red}
normalizationFactors: {gwp: 2}
axisLabels: {gwp: kg}
axisLimitNormalized: 1
axisLimitNormalizedZoomed: 0.5
`

func TestDecode_YAML(t *testing.T) {
	m, err := Decode([]byte(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, "Bikes", m.ProjectName)
	assert.Equal(t, "/", m.YearSeparator)
	assert.InDelta(t, 1.0, m.AxisLimitNormalized, 0)
	assert.NoError(t, m.Validate())
}

func TestDecode_AlternativesWithNonStringKeys(t *testing.T) {
	doc := strings.Replace(minimalYAML, "defaultAlternatives: []",
		"defaultAlternatives:\n  - {1: steel, 2: {3: carbon}}\n  - [{true: x}]", 1)

	m, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, m.DefaultAlternatives, 2)
	assert.Equal(t, map[string]any{"1": "steel", "2": map[string]any{"3": "carbon"}}, m.DefaultAlternatives[0])
	assert.Equal(t, []any{map[string]any{"true": "x"}}, m.DefaultAlternatives[1])

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"defaultAlternatives":[{"1":"steel","2":{"3":"carbon"}},[{"true":"x"}]]`)
}

func TestDecode_MissingFields(t *testing.T) {
	tests := []struct {
		name        string
		edit        func(doc string) string
		wantMissing []string
	}{
		{
			name: "top-level field omitted",
			edit: func(doc string) string {
				return strings.Replace(doc, `"yearSeparator": "-",`, "", 1)
			},
			wantMissing: []string{"yearSeparator"},
		},
		{
			name: "two fields omitted",
			edit: func(doc string) string {
				doc = strings.Replace(doc, `"defaultYears": ["2020", "2030"],`, "", 1)
				return strings.Replace(doc, `"defaultAlternatives": [{"name": "heat pump"}, "gas boiler"],`, "", 1)
			},
			wantMissing: []string{"defaultAlternatives", "defaultYears"},
		},
		{
			name: "scenario filename omitted",
			edit: func(doc string) string {
				return strings.Replace(doc, `{"title": "Green grid", "filename": "green.json"}`, `{"title": "Green grid"}`, 1)
			},
			wantMissing: []string{"scenarios.green.filename"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.edit(testutil.SampleMetadataJSON)))
			var mfe *MissingFieldError
			require.True(t, errors.As(err, &mfe), "got %v", err)
			assert.Equal(t, tt.wantMissing, mfe.Fields)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"sequence", "[1, 2]", "must be a mapping"},
		{"syntax", "{", "failed to parse"},
		{"unknown field", strings.Replace(testutil.SampleMetadataJSON, `"projectName"`, `"extra": 1, "projectName"`, 1), "failed to decode"},
		{"wrong type", strings.Replace(testutil.SampleMetadataJSON, `"axisLimitNormalized": 1.0`, `"axisLimitNormalized": "high"`, 1), "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromBytes_RejectsInvalidMetadata(t *testing.T) {
	doc := strings.Replace(testutil.SampleMetadataJSON, `"defaultScenario": "base"`, `"defaultScenario": "missing"`, 1)

	_, err := FromBytes([]byte(doc), "metadata.json")
	var ve *lca.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.False(t, ve.Valid())
	assert.Contains(t, err.Error(), "unresolved scenario key")
}

func TestFromBytes_KeepsWarnings(t *testing.T) {
	doc := strings.Replace(testutil.SampleMetadataJSON, `"ap": "Accumulated exceedance"`, `"other": "x"`, 1)

	snap, err := FromBytes([]byte(doc), "metadata.json")
	require.NoError(t, err)
	require.Equal(t, 1, snap.Warnings())
	assert.Equal(t, "descriptions", snap.Issues[0].Field)
	assert.Len(t, snap.Hash, 64)
	assert.Equal(t, "metadata.json", snap.Source)
}

func TestLoader_LoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSampleMetadata(t, dir)

	l := NewLoader(path, testutil.NewTestLogger(t))

	_, err := l.Current()
	require.ErrorIs(t, err, ErrNoSnapshot)

	var mu sync.Mutex
	var loads []string
	l.OnLoad(func(s *Snapshot) {
		mu.Lock()
		loads = append(loads, s.Metadata.ProjectName)
		mu.Unlock()
	})

	first, err := l.Load()
	require.NoError(t, err)
	cur, err := l.Current()
	require.NoError(t, err)
	assert.Same(t, first, cur)

	// A broken revision keeps the previous snapshot.
	require.NoError(t, os.WriteFile(path, []byte(`{"projectName": "broken"}`), 0600))
	_, err = l.Load()
	require.Error(t, err)
	cur, err = l.Current()
	require.NoError(t, err)
	assert.Same(t, first, cur)

	// A valid revision replaces it.
	updated := strings.Replace(testutil.SampleMetadataJSON, "Residential heating", "District heating", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0600))
	second, err := l.Load()
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, second.Hash)
	assert.Equal(t, "Residential heating", first.Metadata.ProjectName, "old snapshot must not change")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Residential heating", "District heating"}, loads)
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(t.TempDir()+"/nope.json", nil)
	_, err := l.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read metadata file")
}
