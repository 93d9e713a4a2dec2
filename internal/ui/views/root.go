package views

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/lcaview/internal/metadata"
)

// safeColor limits inline style values to plain color notations.
var safeColor = regexp.MustCompile(`^[#a-zA-Z0-9(),.% ]+$`)

// SelectedScenario returns selected when it names a scenario, otherwise the
// default scenario.
func SelectedScenario(snap *metadata.Snapshot, selected string) string {
	if snap == nil || snap.Metadata == nil {
		return selected
	}
	if _, ok := snap.Metadata.Scenario(selected); ok {
		return selected
	}
	return snap.Metadata.DefaultScenario
}

func scenarioSignals(snap *metadata.Snapshot, selected string) (string, error) {
	signals, err := json.Marshal(map[string]string{"scenario": SelectedScenario(snap, selected)})
	return string(signals), err
}

func revisionLabel(snap *metadata.Snapshot) string {
	var s string
	if len(snap.Hash) >= 12 {
		s = "revision " + snap.Hash[:12]
	}
	if !snap.LoadedAt.IsZero() {
		s += " loaded " + snap.LoadedAt.Format("2006-01-02 15:04:05")
	}
	return s
}

func selectScenarioAction(key string) string {
	return "$scenario = " + jsString(key) + "; @post('/scenario')"
}

// pressedExpression keeps aria-pressed in sync with the signal between
// patches.
func pressedExpression(key string) string {
	return "String($scenario === " + jsString(key) + ")"
}

func jsString(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}

func scenarioFileURL(key string) string {
	return "/data/" + url.PathEscape(key)
}

func isSafeColor(c string) bool {
	return c != "" && safeColor.MatchString(c)
}

func swatchStyle(c string) map[string]templ.SafeCSSProperty {
	return map[string]templ.SafeCSSProperty{"background-color": templ.SafeCSSProperty(c)}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
