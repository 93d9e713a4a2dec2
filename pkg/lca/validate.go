package lca

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a validation issue.
type Severity int

// Severity levels for validation issues.
const (
	// SeverityError marks metadata that cannot be used for display.
	SeverityError Severity = iota
	// SeverityWarning marks metadata that is usable but inconsistent.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// =============================================================================
// Issues
// =============================================================================

// Issue is one finding of Validate.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Key      string   `json:"key,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Key != "" {
		return fmt.Sprintf("%s: %s[%q]: %s", i.Severity, i.Field, i.Key, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// ValidationError carries every issue found in a metadata record.
// It is returned whenever at least one issue, of any severity, was found.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	errs, warns := e.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "invalid LCA metadata: %d error(s), %d warning(s)", errs, warns)
	for _, i := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(i.String())
	}
	return b.String()
}

// Counts returns the number of errors and warnings.
func (e *ValidationError) Counts() (errs, warns int) {
	for _, i := range e.Issues {
		if i.Severity == SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}

// Valid reports whether no error-severity issue was found.
func (e *ValidationError) Valid() bool {
	errs, _ := e.Counts()
	return errs == 0
}

// Errors returns only the error-severity issues.
func (e *ValidationError) Errors() []Issue {
	return e.filter(SeverityError)
}

// Warnings returns only the warning-severity issues.
func (e *ValidationError) Warnings() []Issue {
	return e.filter(SeverityWarning)
}

func (e *ValidationError) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range e.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// =============================================================================
// Validate
// =============================================================================

// Validate checks the cross-field consistency of the record.
// It returns nil when no issue is found, otherwise a *ValidationError.
// A ValidationError holding only warnings still reports Valid() == true.
func (m *Metadata) Validate() error {
	v := &validator{m: m}
	v.projectName()
	v.scenarios()
	v.defaultScenario()
	v.impactCategories()
	v.years()
	v.normalizationFactors()
	v.colors()
	v.axisLimits()

	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

// Valid reports whether Validate found no error-severity issue.
func (m *Metadata) Valid() bool {
	err := m.Validate()
	if err == nil {
		return true
	}
	if ve, ok := err.(*ValidationError); ok {
		return ve.Valid()
	}
	return false
}

// Issues returns every issue Validate finds, or nil.
func (m *Metadata) Issues() []Issue {
	if ve, ok := m.Validate().(*ValidationError); ok {
		return ve.Issues
	}
	return nil
}

type validator struct {
	m      *Metadata
	issues []Issue
}

func (v *validator) errorf(field, key, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: SeverityError, Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) warnf(field, key, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: SeverityWarning, Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) projectName() {
	if strings.TrimSpace(v.m.ProjectName) == "" {
		v.warnf("projectName", "", "project name is empty")
	}
}

func (v *validator) scenarios() {
	if len(v.m.Scenarios) == 0 {
		v.errorf("scenarios", "", "at least one scenario is required")
		return
	}
	for _, key := range v.m.ScenarioKeys() {
		s := v.m.Scenarios[key]
		if strings.TrimSpace(s.Title) == "" {
			v.errorf("scenarios", key, "scenario title is empty")
		}
		if strings.TrimSpace(s.Filename) == "" {
			v.errorf("scenarios", key, "scenario filename is empty")
		}
	}
}

func (v *validator) defaultScenario() {
	if v.m.DefaultScenario == "" {
		v.errorf("defaultScenario", "", "default scenario is empty")
		return
	}
	if _, ok := v.m.Scenarios[v.m.DefaultScenario]; !ok {
		v.errorf("defaultScenario", v.m.DefaultScenario, "unresolved scenario key %q", v.m.DefaultScenario)
	}
}

func (v *validator) impactCategories() {
	seen := make(map[string]bool, len(v.m.DefaultImpactCategories))
	for _, id := range v.m.DefaultImpactCategories {
		if seen[id] {
			v.errorf("defaultImpactCategories", id, "duplicate impact category")
			continue
		}
		seen[id] = true

		if _, ok := v.m.ShortLabels[id]; !ok {
			v.errorf("shortLabels", id, "missing short label for impact category")
		}
		if _, ok := v.m.LongLabels[id]; !ok {
			v.errorf("longLabels", id, "missing long label for impact category")
		}
		if _, ok := v.m.Colors[id]; !ok {
			v.errorf("colors", id, "missing color for impact category")
		}
		if _, ok := v.m.NormalizationFactors[id]; !ok {
			v.errorf("normalizationFactors", id, "missing normalization factor for impact category")
		}
		if _, ok := v.m.AxisLabels[id]; !ok {
			v.errorf("axisLabels", id, "missing axis label for impact category")
		}
		if _, ok := v.m.Descriptions[id]; !ok {
			v.warnf("descriptions", id, "no description for impact category")
		}
	}
}

func (v *validator) years() {
	seen := make(map[string]bool, len(v.m.DefaultYears))
	for _, y := range v.m.DefaultYears {
		if seen[y] {
			v.errorf("defaultYears", y, "duplicate year")
			continue
		}
		seen[y] = true
	}
	if v.m.YearSeparator == "" && len(v.m.DefaultYears) > 1 {
		v.warnf("yearSeparator", "", "year separator is empty but %d default years are set", len(v.m.DefaultYears))
	}
}

func (v *validator) normalizationFactors() {
	for _, id := range sortedKeys(v.m.NormalizationFactors) {
		f := v.m.NormalizationFactors[id]
		if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
			v.errorf("normalizationFactors", id, "normalization factor must be a finite non-zero number, got %v", f)
		}
	}
}

var colorPattern = regexp.MustCompile(`^(#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|(rgb|rgba|hsl|hsla)\([^()]*\))$`)

func (v *validator) colors() {
	for _, id := range sortedKeys(v.m.Colors) {
		c := strings.TrimSpace(v.m.Colors[id])
		if !colorPattern.MatchString(c) && !IsNamedColor(c) {
			v.warnf("colors", id, "unrecognized color %q", v.m.Colors[id])
		}
	}
}

func (v *validator) axisLimits() {
	positive := func(f float64) bool {
		return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
	}
	if !positive(v.m.AxisLimitNormalized) {
		v.errorf("axisLimitNormalized", "", "axis limit must be a finite positive number, got %v", v.m.AxisLimitNormalized)
	}
	if !positive(v.m.AxisLimitNormalizedZoomed) {
		v.errorf("axisLimitNormalizedZoomed", "", "axis limit must be a finite positive number, got %v", v.m.AxisLimitNormalizedZoomed)
	}
	if positive(v.m.AxisLimitNormalized) && positive(v.m.AxisLimitNormalizedZoomed) &&
		v.m.AxisLimitNormalizedZoomed > v.m.AxisLimitNormalized {
		v.warnf("axisLimitNormalizedZoomed", "", "zoomed limit %v exceeds normal limit %v", v.m.AxisLimitNormalizedZoomed, v.m.AxisLimitNormalized)
	}
}
