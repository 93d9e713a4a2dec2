package dashboard

import "github.com/leapstack-labs/lcaview/pkg/lca"

// Session keys.
const (
	SessionName        = "lcaview"
	sessionKeyScenario = "scenario"
)

// ScenarioSignals are the datastar signals posted by the scenario selector.
type ScenarioSignals struct {
	Scenario string `json:"scenario"`
}

// ScenarioResponse is the JSON shape of a single scenario.
type ScenarioResponse struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Default  bool   `json:"default"`
}

// ValidationResponse reports the issues of the current metadata revision.
type ValidationResponse struct {
	Valid    bool        `json:"valid"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Hash     string      `json:"hash"`
	Issues   []lca.Issue `json:"issues"`
}
