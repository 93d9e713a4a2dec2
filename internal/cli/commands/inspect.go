package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lcaview/internal/cli/output"
	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/pkg/lca"
)

// InspectOutput is the JSON shape of the inspect command.
type InspectOutput struct {
	File     string        `json:"file"`
	Hash     string        `json:"hash"`
	Metadata *lca.Metadata `json:"metadata"`
	Warnings []lca.Issue   `json:"warnings"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the scenarios and impact categories of the metadata",
		Long: `Load the configured metadata file and print its contents: the project
overview, the goal and scope statement, every scenario with the state of its
results file, and the default impact categories in display order.`,
		Example: `  # Inspect as a terminal table
  lcaview inspect

  # Inspect as markdown for a report
  lcaview inspect -o markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd)
		},
	}
}

func runInspect(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	snap, err := metadata.ReadFile(cmdCtx.Cfg.Metadata)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		warnings := snap.Issues
		if warnings == nil {
			warnings = []lca.Issue{}
		}
		return r.JSON(InspectOutput{
			File:     snap.Source,
			Hash:     snap.Hash,
			Metadata: snap.Metadata,
			Warnings: warnings,
		})
	}

	inspectSnapshot(r, snap, cmdCtx.Cfg.DataDir)
	return nil
}

func inspectSnapshot(r *output.Renderer, snap *metadata.Snapshot, dataDir string) {
	m := snap.Metadata
	markdown := r.EffectiveMode() == output.ModeMarkdown
	kv := func(key, value string) {
		if markdown {
			r.Println(output.FormatKeyValue(key, value))
			return
		}
		r.Println(r.Styles().KeyValue(key, value))
	}
	gap := func() { r.Println("") }

	name := m.ProjectName
	if name == "" {
		name = "(unnamed project)"
	}
	r.Header(1, name)
	if !markdown {
		gap()
	}

	defaultTitle := m.DefaultScenario
	if sc, ok := m.DefaultScenarioEntry(); ok {
		defaultTitle = fmt.Sprintf("%s (%s)", sc.Title, m.DefaultScenario)
	}
	kv("Default scenario", defaultTitle)
	kv("Years", m.YearLabel(m.DefaultYears))
	kv("Alternatives", strconv.Itoa(len(m.DefaultAlternatives)))
	kv("Axis limit", formatFloat(m.AxisLimitNormalized))
	kv("Axis limit (zoomed)", formatFloat(m.AxisLimitNormalizedZoomed))
	kv("Revision", shortHash(snap.Hash))
	gap()

	if scope := goalScopeMarkdown(m.GoalScopeDescription); scope != "" {
		r.Header(2, "Goal and scope")
		if !markdown {
			gap()
		}
		r.Println(scope)
		gap()
	}

	r.Header(2, "Scenarios")
	if !markdown {
		gap()
	}
	rows := make([][]string, 0, len(m.Scenarios))
	for _, key := range m.ScenarioKeys() {
		sc := m.Scenarios[key]
		marker := ""
		if key == m.DefaultScenario {
			marker = "yes"
		}
		rows = append(rows, []string{key, sc.Title, sc.Filename, marker, resultsState(dataDir, sc.Filename)})
	}
	r.Table([]string{"Key", "Title", "File", "Default", "Results"}, rows)
	gap()

	r.Header(2, "Impact categories")
	if !markdown {
		gap()
	}
	rows = rows[:0]
	for _, id := range m.DefaultImpactCategories {
		factor := ""
		if f, ok := m.NormalizationFactor(id); ok {
			factor = formatFloat(f)
		}
		rows = append(rows, []string{id, m.ShortLabel(id), m.LongLabel(id), m.Color(id), factor, m.AxisLabel(id)})
	}
	r.Table([]string{"ID", "Short", "Long", "Color", "Factor", "Axis"}, rows)

	if len(snap.Issues) > 0 {
		gap()
		for _, issue := range snap.Issues {
			r.Warning(issueLocation(issue) + ": " + issue.Message)
		}
	}
}

// goalScopeMarkdown converts the authored HTML statement for terminal
// display. Text that fails to convert is shown as written.
func goalScopeMarkdown(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(md)
}

// resultsState reports whether a scenario's results file exists inside the
// data directory.
func resultsState(dataDir, filename string) string {
	if !filepath.IsLocal(filename) {
		return "outside data dir"
	}
	info, err := os.Stat(filepath.Join(dataDir, filename))
	switch {
	case err != nil:
		return "missing"
	case info.IsDir():
		return "not a file"
	default:
		return "ok"
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
