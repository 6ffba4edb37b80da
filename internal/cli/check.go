package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/inspectq/internal/query"
	"github.com/roach88/inspectq/internal/queryspec"
)

// CheckResult holds query-document check results.
type CheckResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (r CheckResult) String() string {
	if r.Valid {
		return "Query document is valid"
	}
	return "Query document is invalid: " + r.Error
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <query.json>",
		Short: "Validate a query document without evaluating it",
		Long: `Validate a query-specification document without touching the point store.

Checks the document against the wire schema (operator shapes, field types,
nonempty operator arrays) and the decoded tree against the structural
invariants (well-formed crop regions). Faster than eval for authoring
feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, queryPath string, cmd *cobra.Command) error {
	setupLogging(opts)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	spec, err := queryspec.ParseFile(queryPath)
	if err != nil {
		var derr *queryspec.DocumentError
		if errors.As(err, &derr) {
			return reportInvalid(formatter, derr.Error())
		}
		return WrapExitError(ExitCommandError, "failed to read query document", err)
	}

	if err := query.Validate(spec.Query); err != nil {
		return reportInvalid(formatter, err.Error())
	}
	if !spec.ValidRegion.Valid() && query.NeedsProper(spec.Query) {
		return reportInvalid(formatter, "valid_region must satisfy p_min <= p_max when the query uses proper")
	}

	return formatter.Success(CheckResult{Valid: true})
}

func reportInvalid(formatter *OutputFormatter, message string) error {
	if err := formatter.Success(CheckResult{Valid: false, Error: message}); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return NewExitError(ExitFailure, "query document is invalid")
}
