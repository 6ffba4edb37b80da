// Package loader imports inspection datasets from text files into the
// point store.
//
// A dataset directory holds three parallel files with one record per line:
//
//	points.txt      "x y" coordinate pairs
//	groups.txt      group id of the point on the same line
//	categories.txt  category of the point on the same line
//
// The three files must have the same number of lines. Point ids are
// assigned 1-based in file order, which becomes the dataset's load order.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/store"
)

// ParseError reports a malformed record in a dataset file.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// Summary reports what a load inserted.
type Summary struct {
	Points int
	Groups int
}

// Load parses the dataset in dir and replaces the store's contents with it
// in one pass: clear, insert unique groups, insert points.
func Load(ctx context.Context, dir string, st *store.Store) (*Summary, error) {
	coords, err := parsePoints(filepath.Join(dir, "points.txt"))
	if err != nil {
		return nil, err
	}
	groups, err := parseInts(filepath.Join(dir, "groups.txt"))
	if err != nil {
		return nil, err
	}
	categories, err := parseInts(filepath.Join(dir, "categories.txt"))
	if err != nil {
		return nil, err
	}

	if len(coords) != len(groups) || len(coords) != len(categories) {
		return nil, fmt.Errorf("dataset files disagree: %d points, %d groups, %d categories",
			len(coords), len(groups), len(categories))
	}

	points := make([]geom.Point, len(coords))
	for i, c := range coords {
		points[i] = geom.Point{
			ID:       int64(i + 1), // 1-based ids in file order
			X:        c.X,
			Y:        c.Y,
			GroupID:  groups[i],
			Category: categories[i],
		}
	}

	uniqueGroups := uniqueSorted(groups)

	if err := st.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear store: %w", err)
	}
	if err := st.InsertGroups(ctx, uniqueGroups); err != nil {
		return nil, fmt.Errorf("insert groups: %w", err)
	}
	if err := st.InsertPoints(ctx, points); err != nil {
		return nil, fmt.Errorf("insert points: %w", err)
	}

	return &Summary{Points: len(points), Groups: len(uniqueGroups)}, nil
}

// parsePoints reads "x y" coordinate pairs, one per line.
func parsePoints(path string) ([]geom.Vec, error) {
	var coords []geom.Vec
	err := scanLines(path, func(line string, n int) error {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return &ParseError{File: path, Line: n,
				Message: fmt.Sprintf("expected two coordinates, got %d fields", len(fields))}
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return &ParseError{File: path, Line: n, Message: fmt.Sprintf("parse x: %v", err)}
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return &ParseError{File: path, Line: n, Message: fmt.Sprintf("parse y: %v", err)}
		}
		coords = append(coords, geom.Vec{X: x, Y: y})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coords, nil
}

// parseInts reads one integer per line.
func parseInts(path string) ([]int64, error) {
	var values []int64
	err := scanLines(path, func(line string, n int) error {
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return &ParseError{File: path, Line: n, Message: fmt.Sprintf("parse integer: %v", err)}
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// scanLines calls fn for every non-blank, trimmed line of the file with its
// 1-based line number.
func scanLines(path string, fn func(line string, n int) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(line, lineNo); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	var out []int64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
