// Package lca defines the metadata schema of a life-cycle-assessment project.
//
// Metadata is a read-only configuration record: it names the scenarios of an
// assessment, the impact categories and years shown by default, and the label,
// color, normalization and axis dictionaries used to display them. The field
// names in the json and yaml tags are the wire format shared with every
// consumer and must not change.
package lca

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata describes an LCA project.
//
// Mappings carry no order. Display order comes from DefaultImpactCategories
// and DefaultYears.
type Metadata struct {
	ProjectName               string              `json:"projectName" yaml:"projectName"`
	GoalScopeDescription      string              `json:"goalScopeDescription" yaml:"goalScopeDescription"`
	Scenarios                 map[string]Scenario `json:"scenarios" yaml:"scenarios"`
	YearSeparator             string              `json:"yearSeparator" yaml:"yearSeparator"`
	DefaultScenario           string              `json:"defaultScenario" yaml:"defaultScenario"`
	DefaultImpactCategories   []string            `json:"defaultImpactCategories" yaml:"defaultImpactCategories"`
	DefaultYears              []string            `json:"defaultYears" yaml:"defaultYears"`
	DefaultAlternatives       []any               `json:"defaultAlternatives" yaml:"defaultAlternatives"`
	ShortLabels               map[string]string   `json:"shortLabels" yaml:"shortLabels"`
	LongLabels                map[string]string   `json:"longLabels" yaml:"longLabels"`
	Descriptions              map[string]string   `json:"descriptions" yaml:"descriptions"`
	Colors                    map[string]string   `json:"colors" yaml:"colors"`
	NormalizationFactors      map[string]float64  `json:"normalizationFactors" yaml:"normalizationFactors"`
	AxisLabels                map[string]string   `json:"axisLabels" yaml:"axisLabels"`
	AxisLimitNormalized       float64             `json:"axisLimitNormalized" yaml:"axisLimitNormalized"`
	AxisLimitNormalizedZoomed float64             `json:"axisLimitNormalizedZoomed" yaml:"axisLimitNormalizedZoomed"`
}

// Scenario is a named variant of the assessment backed by a results file.
type Scenario struct {
	Title    string `json:"title" yaml:"title"`
	Filename string `json:"filename" yaml:"filename"`
}

// RequiredFields lists the wire names of every top-level Metadata field.
var RequiredFields = []string{
	"projectName",
	"goalScopeDescription",
	"scenarios",
	"yearSeparator",
	"defaultScenario",
	"defaultImpactCategories",
	"defaultYears",
	"defaultAlternatives",
	"shortLabels",
	"longLabels",
	"descriptions",
	"colors",
	"normalizationFactors",
	"axisLabels",
	"axisLimitNormalized",
	"axisLimitNormalizedZoomed",
}

// RequiredScenarioFields lists the wire names of every Scenario field.
var RequiredScenarioFields = []string{"title", "filename"}

// ScenarioKeys returns the scenario keys sorted lexically.
func (m *Metadata) ScenarioKeys() []string {
	return sortedKeys(m.Scenarios)
}

// Scenario looks up a scenario by key.
func (m *Metadata) Scenario(key string) (Scenario, bool) {
	s, ok := m.Scenarios[key]
	return s, ok
}

// DefaultScenarioEntry returns the scenario selected by default.
func (m *Metadata) DefaultScenarioEntry() (Scenario, bool) {
	return m.Scenario(m.DefaultScenario)
}

// ShortLabel returns the short label for id, falling back to a humanized id.
func (m *Metadata) ShortLabel(id string) string {
	if l, ok := m.ShortLabels[id]; ok && l != "" {
		return l
	}
	return humanize(id)
}

// LongLabel returns the long label for id, falling back to the short label.
func (m *Metadata) LongLabel(id string) string {
	if l, ok := m.LongLabels[id]; ok && l != "" {
		return l
	}
	return m.ShortLabel(id)
}

// Description returns the description for id, or "".
func (m *Metadata) Description(id string) string {
	return m.Descriptions[id]
}

// Color returns the display color for id, or "".
func (m *Metadata) Color(id string) string {
	return m.Colors[id]
}

// AxisLabel returns the axis caption for id, or "".
func (m *Metadata) AxisLabel(id string) string {
	return m.AxisLabels[id]
}

// NormalizationFactor returns the normalization factor for id.
func (m *Metadata) NormalizationFactor(id string) (float64, bool) {
	f, ok := m.NormalizationFactors[id]
	return f, ok
}

// YearLabel joins years with the configured separator.
func (m *Metadata) YearLabel(years []string) string {
	return strings.Join(years, m.YearSeparator)
}

// Clone returns a deep copy. Opaque alternative values are copied shallowly.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	c := *m
	c.Scenarios = maps.Clone(m.Scenarios)
	c.DefaultImpactCategories = slices.Clone(m.DefaultImpactCategories)
	c.DefaultYears = slices.Clone(m.DefaultYears)
	c.DefaultAlternatives = slices.Clone(m.DefaultAlternatives)
	c.ShortLabels = maps.Clone(m.ShortLabels)
	c.LongLabels = maps.Clone(m.LongLabels)
	c.Descriptions = maps.Clone(m.Descriptions)
	c.Colors = maps.Clone(m.Colors)
	c.NormalizationFactors = maps.Clone(m.NormalizationFactors)
	c.AxisLabels = maps.Clone(m.AxisLabels)
	return &c
}

// humanize turns identifiers like "climate_change" into "Climate Change".
func humanize(id string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(id)
	return cases.Title(language.English).String(s)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
