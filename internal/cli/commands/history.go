package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lcaview/internal/cli/output"
	"github.com/leapstack-labs/lcaview/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded metadata revisions",
		Long: `List the metadata revisions recorded by the viewer, newest first.

A revision is recorded every time the viewer loads metadata whose content
differs from the previous revision.`,
		Example: `  # Show the last 20 revisions
  lcaview history

  # Show the last 5 revisions as JSON
  lcaview history --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of revisions to show")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	revs, err := store.ListRevisions(opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if revs == nil {
			revs = []*state.Revision{}
		}
		return r.JSON(revs)
	}

	if len(revs) == 0 {
		r.Muted("No revisions recorded yet. Run `lcaview serve` to record one.")
		return nil
	}

	r.Header(1, "Metadata revisions")
	rows := make([][]string, 0, len(revs))
	for _, rev := range revs {
		rows = append(rows, []string{
			rev.LoadedAt.Local().Format(time.DateTime),
			shortHash(rev.ContentHash),
			rev.ProjectName,
			strconv.Itoa(rev.WarningCount),
			rev.SourcePath,
		})
	}
	r.Table([]string{"Loaded", "Revision", "Project", "Warnings", "Source"}, rows)
	return nil
}
