package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/inspectq/internal/engine"
	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/queryspec"
	"github.com/roach88/inspectq/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Database    string
	Parallelism int

	// RunGenerator allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunGenerator engine.RunTokenGenerator
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <query.json> <output.txt>",
		Short: "Evaluate a query document against the point store",
		Long: `Evaluate a query-specification document against the point store and
write the matching points to the output file, one "x y" line per point in
canonical (y, x) order.

The output file is written atomically: on failure the command exits
nonzero and leaves no output file behind, so a present output file can
always be trusted.

Example:
  inspectq eval --db ./inspect.db query.json results.txt
  inspectq eval --db ./inspect.db --parallel 4 query.json results.txt`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Parallelism, "parallel", 1, "max goroutines for and/or child evaluation")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// evalSummary is the success payload of the eval command.
type evalSummary struct {
	RunToken   string  `json:"run_token"`
	Points     int     `json:"points"`
	Groups     int     `json:"groups"`
	Categories int     `json:"categories"`
	DurationMS int64   `json:"duration_ms"`
	MinX       float64 `json:"min_x,omitempty"`
	MinY       float64 `json:"min_y,omitempty"`
	MaxX       float64 `json:"max_x,omitempty"`
	MaxY       float64 `json:"max_y,omitempty"`
	Output     string  `json:"output"`
}

func (s evalSummary) String() string {
	p := message.NewPrinter(language.English)
	out := p.Sprintf("Found %d points in %d groups and %d categories (%d ms)",
		s.Points, s.Groups, s.Categories, s.DurationMS)
	if s.Points > 0 {
		out += fmt.Sprintf("\nBounding box: [(%g,%g)-(%g,%g)]", s.MinX, s.MinY, s.MaxX, s.MaxY)
	}
	out += fmt.Sprintf("\nResults written to: %s", s.Output)
	return out
}

func runEval(opts *EvalOptions, queryPath, outputPath string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	slog.Info("parsing query document", "path", queryPath)
	spec, err := queryspec.ParseFile(queryPath)
	if err != nil {
		if ferr := formatter.Error("INVALID_QUERY_DOCUMENT", err.Error(), nil); ferr != nil {
			return WrapExitError(ExitCommandError, "failed to write error output", ferr)
		}
		return WrapExitError(ExitFailure, "invalid query document", err)
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

	snap, err := st.ReadSnapshot(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read point snapshot", err)
	}
	slog.Info("snapshot ready", "points", snap.Len())

	runGen := opts.RunGenerator
	if runGen == nil {
		runGen = engine.UUIDv7Generator{}
	}
	token := runGen.Generate()

	ev := engine.New(
		engine.WithParallelism(opts.Parallelism),
		engine.WithLogger(slog.Default()),
		engine.WithRunTokens(engine.FixedGenerator{Token: token}),
	)

	start := time.Now()
	points, err := ev.Evaluate(snap, spec.ValidRegion, spec.Query)
	if err != nil {
		if ferr := formatter.Error("EVALUATION_FAILED", err.Error(), nil); ferr != nil {
			return WrapExitError(ExitCommandError, "failed to write error output", ferr)
		}
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}
	duration := time.Since(start)

	if err := writeOutputAtomic(outputPath, points); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to write output file %s", outputPath), err)
	}

	summary := summarize(points, token, duration, outputPath)
	slog.Info("evaluation complete", "run", token, "points", summary.Points, "duration_ms", summary.DurationMS)
	return formatter.Success(summary)
}

// writeOutputAtomic renders points to a temp file in the target directory
// and renames it into place, so a partially written file never appears
// under the output path.
func writeOutputAtomic(path string, points []geom.Point) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name()) // no-op after successful rename
	}()

	if err := engine.Render(tmp, points); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func summarize(points []geom.Point, token string, duration time.Duration, outputPath string) evalSummary {
	s := evalSummary{
		RunToken:   token,
		Points:     len(points),
		DurationMS: duration.Milliseconds(),
		Output:     outputPath,
	}
	if len(points) == 0 {
		return s
	}

	groups := make(map[int64]struct{})
	categories := make(map[int64]struct{})
	s.MinX, s.MaxX = points[0].X, points[0].X
	s.MinY, s.MaxY = points[0].Y, points[0].Y
	for _, p := range points {
		groups[p.GroupID] = struct{}{}
		categories[p.Category] = struct{}{}
		s.MinX = min(s.MinX, p.X)
		s.MaxX = max(s.MaxX, p.X)
		s.MinY = min(s.MinY, p.Y)
		s.MaxY = max(s.MaxY, p.Y)
	}
	s.Groups = len(groups)
	s.Categories = len(categories)
	return s
}
