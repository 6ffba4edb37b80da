package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/inspectq/internal/loader"
	"github.com/roach88/inspectq/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <data-dir>",
		Short: "Load an inspection dataset into the point store",
		Long: `Load an inspection dataset into the SQLite point store.

The data directory must contain three parallel files with one record per
line: points.txt ("x y" pairs), groups.txt (group ids) and categories.txt
(categories). Point ids are assigned 1-based in file order. Any existing
dataset in the database is replaced.

Example:
  inspectq load --db ./inspect.db ./data`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// loadSummary is the success payload of the load command.
type loadSummary struct {
	Points int `json:"points"`
	Groups int `json:"groups"`
}

func (s loadSummary) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("Loaded %d points in %d groups", s.Points, s.Groups)
}

func runLoad(opts *LoadOptions, dataDir string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	slog.Info("loading dataset", "dir", dataDir)
	summary, err := loader.Load(cmd.Context(), dataDir, st)
	if err != nil {
		if ferr := formatter.Error("LOAD_FAILED", err.Error(), nil); ferr != nil {
			return WrapExitError(ExitCommandError, "failed to write error output", ferr)
		}
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load dataset from %s", dataDir), err)
	}

	return formatter.Success(loadSummary{Points: summary.Points, Groups: summary.Groups})
}
