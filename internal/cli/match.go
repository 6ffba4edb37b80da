package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/inspectq/internal/engine"
	"github.com/roach88/inspectq/internal/store"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Database  string
	Tolerance float64
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <output.txt>",
		Short: "Re-derive point identities from rendered output",
		Long: `Re-match a rendered result file against the point store.

The wire format carries only coordinates; match reconstructs each line's
full point identity (id, group, category) by coordinate equality within a
small tolerance. Lines matching no stored point, or more than one, make
the command exit nonzero.

Example:
  inspectq match --db ./inspect.db results.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", engine.MatchTolerance, "per-axis coordinate tolerance")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// matchSummary is the payload of the match command.
type matchSummary struct {
	Lines     int `json:"lines"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Ambiguous int `json:"ambiguous"`
}

func (s matchSummary) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("Matched %d of %d lines (%d unmatched, %d ambiguous)",
		s.Matched, s.Lines, s.Unmatched, s.Ambiguous)
}

func runMatch(opts *MatchOptions, outputPath string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	snap, err := st.ReadSnapshot(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read point snapshot", err)
	}

	f, err := os.Open(outputPath)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to open output file %s", outputPath), err)
	}
	defer f.Close()

	report, err := engine.Match(f, snap, opts.Tolerance)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to parse output file", err)
	}

	summary := matchSummary{
		Lines:     len(report.Lines),
		Matched:   report.Matched(),
		Unmatched: report.Unmatched(),
		Ambiguous: report.Ambiguous(),
	}
	if ferr := formatter.Success(summary); ferr != nil {
		return WrapExitError(ExitCommandError, "failed to write output", ferr)
	}
	if summary.Unmatched > 0 || summary.Ambiguous > 0 {
		return NewExitError(ExitFailure, "output does not match the point store")
	}
	return nil
}
