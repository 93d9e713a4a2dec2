package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lcaview/internal/cli/output"
	"github.com/leapstack-labs/lcaview/internal/metadata"
	"github.com/leapstack-labs/lcaview/pkg/lca"
)

// ValidateOutput is the JSON shape of the validate command.
type ValidateOutput struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Issues   []lca.Issue `json:"issues"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a metadata file for missing fields and inconsistencies",
		Long: `Decode a metadata file and report every consistency issue.

Errors make the metadata unusable (for example a default scenario that is
not one of the scenarios). Warnings are reported but do not fail the check.
Without an argument the configured metadata file is validated.`,
		Example: `  # Validate the configured metadata file
  lcaview validate

  # Validate another file as JSON
  lcaview validate other/metadata.yaml -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	path := cmdCtx.Cfg.Metadata
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user input by design of the command
	if err != nil {
		return fmt.Errorf("failed to read metadata file: %w", err)
	}

	m, err := metadata.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	result := ValidateOutput{File: path, Issues: []lca.Issue{}}
	for _, issue := range m.Issues() {
		if issue.Severity == lca.SeverityError {
			result.Errors++
		} else {
			result.Warnings++
		}
		result.Issues = append(result.Issues, issue)
	}
	result.Valid = result.Errors == 0
	cmdCtx.Logger.Debug("validated metadata", "file", path, "errors", result.Errors, "warnings", result.Warnings)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(result); err != nil {
			return err
		}
	case output.ModeMarkdown:
		validateMarkdown(r, result)
	default:
		validateText(r, result)
	}

	if !result.Valid {
		return fmt.Errorf("metadata has %d error(s)", result.Errors)
	}
	return nil
}

func validateText(r *output.Renderer, result ValidateOutput) {
	for _, issue := range result.Issues {
		if issue.Severity == lca.SeverityError {
			r.Error(issueLocation(issue) + ": " + issue.Message)
		} else {
			r.Warning(issueLocation(issue) + ": " + issue.Message)
		}
	}
	if result.Valid {
		r.Success(fmt.Sprintf("%s is valid (%d warning(s))", result.File, result.Warnings))
	}
}

func validateMarkdown(r *output.Renderer, result ValidateOutput) {
	r.Println(output.FormatHeader(1, "Validation: "+result.File))
	r.Println("")
	status := "valid"
	if !result.Valid {
		status = "invalid"
	}
	r.Println(output.FormatKeyValue("Status", status))
	r.Println(output.FormatKeyValue("Errors", fmt.Sprintf("%d", result.Errors)))
	r.Println(output.FormatKeyValue("Warnings", fmt.Sprintf("%d", result.Warnings)))

	if len(result.Issues) == 0 {
		return
	}
	r.Println("")
	r.Println(output.FormatHeader(2, "Issues"))
	r.Println("")
	for _, issue := range result.Issues {
		r.Printf("- **%s** `%s`: %s\n", issue.Severity, issueLocation(issue), issue.Message)
	}
}

func issueLocation(issue lca.Issue) string {
	if issue.Key != "" {
		return fmt.Sprintf("%s[%s]", issue.Field, issue.Key)
	}
	return issue.Field
}
