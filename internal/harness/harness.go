// Package harness provides a conformance testing framework for the query
// engine.
//
// Scenarios are YAML files pairing a point dataset with a verbatim
// query-specification document and an expected result. Run executes a
// scenario through the full pipeline: wire-format parsing (schema
// validation included), snapshot construction, evaluation, and rendering.
// RunWithGolden additionally compares the rendered output against a
// golden file, so the exact wire bytes are pinned.
//
// Each scenario runs against a fresh snapshot with a fixed run token,
// making executions fully deterministic.
package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/inspectq/internal/engine"
	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/queryspec"
)

// Result holds the outcome of a scenario run.
type Result struct {
	// Points are the evaluated points in canonical output order.
	Points []geom.Point

	// Output is the rendered wire-format text for the points.
	Output string

	// RunToken is the token the evaluator ran under.
	RunToken string
}

// Run executes a scenario and validates its expect clause.
//
// Execution flow:
//  1. Build a snapshot from the scenario points.
//  2. Parse the embedded query document through the wire schema.
//  3. Evaluate against the snapshot.
//  4. Check the result ids (or the expected error) against the expect
//     clause.
func Run(scenario *Scenario) (*Result, error) {
	points := make([]geom.Point, len(scenario.Points))
	for i, p := range scenario.Points {
		points[i] = geom.Point{ID: p.ID, X: p.X, Y: p.Y, GroupID: p.Group, Category: p.Category}
	}
	snap, err := engine.NewSnapshot(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	spec, err := queryspec.Parse([]byte(scenario.Document))
	if err != nil {
		if scenario.Expect.Error != "" {
			return checkExpectedError(scenario, err)
		}
		return nil, fmt.Errorf("failed to parse query document: %w", err)
	}

	token := scenario.RunToken
	if token == "" {
		token = "test-run-default"
	}
	parallelism := scenario.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	ev := engine.New(
		engine.WithParallelism(parallelism),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithRunTokens(engine.FixedGenerator{Token: token}),
	)

	result, err := ev.Evaluate(snap, spec.ValidRegion, spec.Query)
	if err != nil {
		if scenario.Expect.Error != "" {
			return checkExpectedError(scenario, err)
		}
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	if scenario.Expect.Error != "" {
		return nil, fmt.Errorf("expected error containing %q, evaluation succeeded", scenario.Expect.Error)
	}

	if err := checkIDs(scenario.Expect.IDs, result); err != nil {
		return nil, err
	}

	return &Result{
		Points:   result,
		Output:   engine.RenderString(result),
		RunToken: token,
	}, nil
}

func checkExpectedError(scenario *Scenario, err error) (*Result, error) {
	if !strings.Contains(err.Error(), scenario.Expect.Error) {
		return nil, fmt.Errorf("error %q does not contain expected %q", err, scenario.Expect.Error)
	}
	return &Result{RunToken: scenario.RunToken}, nil
}

func checkIDs(want []int64, got []geom.Point) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected %d points, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.ID != want[i] {
			return fmt.Errorf("result[%d]: expected id %d, got %d", i, want[i], p.ID)
		}
	}
	return nil
}
