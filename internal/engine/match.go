package engine

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/inspectq/internal/geom"
)

// MatchTolerance is the coordinate tolerance used to re-derive point
// identity from rendered output. The wire format carries six decimal
// places, so anything within 1e-6 per axis is the same point.
const MatchTolerance = 1e-6

// LineMatch records the snapshot points matching one rendered output line.
type LineMatch struct {
	// Line is the 1-based line number in the rendered output.
	Line int

	// X, Y are the parsed coordinates of the line.
	X float64
	Y float64

	// Candidates holds the snapshot points within tolerance of (X, Y), in
	// load order. Exactly one candidate is an unambiguous match; zero
	// means the line corresponds to no known point; more than one means
	// coordinates collide and identity cannot be reconstructed.
	Candidates []geom.Point
}

// MatchReport is the result of re-matching rendered output against a
// snapshot.
type MatchReport struct {
	Lines []LineMatch
}

// Matched counts lines with exactly one candidate.
func (r *MatchReport) Matched() int {
	n := 0
	for _, l := range r.Lines {
		if len(l.Candidates) == 1 {
			n++
		}
	}
	return n
}

// Unmatched counts lines with no candidate.
func (r *MatchReport) Unmatched() int {
	n := 0
	for _, l := range r.Lines {
		if len(l.Candidates) == 0 {
			n++
		}
	}
	return n
}

// Ambiguous counts lines with more than one candidate.
func (r *MatchReport) Ambiguous() int {
	n := 0
	for _, l := range r.Lines {
		if len(l.Candidates) > 1 {
			n++
		}
	}
	return n
}

// Match parses rendered output and re-derives point identity by matching
// coordinates against the snapshot within tolerance per axis. Blank lines
// are skipped; a line that does not parse as two real numbers is an error.
func Match(r io.Reader, snap *Snapshot, tolerance float64) (*MatchReport, error) {
	report := &MatchReport{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected two coordinates, got %d fields", lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse x: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse y: %w", lineNo, err)
		}

		m := LineMatch{Line: lineNo, X: x, Y: y}
		for _, p := range snap.Points() {
			if math.Abs(p.X-x) <= tolerance && math.Abs(p.Y-y) <= tolerance {
				m.Candidates = append(m.Candidates, p)
			}
		}
		report.Lines = append(report.Lines, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	return report, nil
}
