package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/inspectq/internal/geom"
)

// Render writes points in the wire format: one point per line, x then y,
// six decimal places, in the order given. The wire format intentionally
// omits id, group and category; consumers reconstruct identity by
// re-matching coordinates against the original point source (see Match).
func Render(w io.Writer, points []geom.Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%.6f %.6f\n", p.X, p.Y); err != nil {
			return fmt.Errorf("render point %d: %w", p.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// RenderString renders points to a string. For tests and golden files.
func RenderString(points []geom.Point) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = Render(&sb, points)
	return sb.String()
}
