package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleMetadataJSON is a complete, valid metadata document with two
// scenarios and two impact categories.
const SampleMetadataJSON = `{
  "projectName": "Residential heating",
  "goalScopeDescription": "<p>Compare <strong>heat pumps</strong> and gas boilers.</p>",
  "scenarios": {
    "base": {"title": "Baseline", "filename": "base.json"},
    "green": {"title": "Green grid", "filename": "green.json"}
  },
  "yearSeparator": "-",
  "defaultScenario": "base",
  "defaultImpactCategories": ["gwp", "ap"],
  "defaultYears": ["2020", "2030"],
  "defaultAlternatives": [{"name": "heat pump"}, "gas boiler"],
  "shortLabels": {"gwp": "GWP", "ap": "AP"},
  "longLabels": {"gwp": "Global warming potential", "ap": "Acidification potential"},
  "descriptions": {"gwp": "Climate change over 100 years", "ap": "Accumulated exceedance"},
  "colors": {"gwp": "#d62728", "ap": "#1f77b4"},
  "normalizationFactors": {"gwp": 8100, "ap": 55.6},
  "axisLabels": {"gwp": "kg CO2-eq", "ap": "mol H+-eq"},
  "axisLimitNormalized": 1.0,
  "axisLimitNormalizedZoomed": 0.05
}`

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteSampleMetadata writes SampleMetadataJSON to dir/metadata.json.
func WriteSampleMetadata(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, dir, "metadata.json", SampleMetadataJSON)
}
