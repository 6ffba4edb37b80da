package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/testutil"
)

func TestRender_WireFormat(t *testing.T) {
	points := []geom.Point{
		{ID: 1, X: 0, Y: 0},
		{ID: 4, X: 5, Y: 0},
		{ID: 2, X: 5.5, Y: 5.25},
	}

	got := RenderString(points)
	want := "0.000000 0.000000\n5.000000 0.000000\n5.500000 5.250000\n"
	assert.Equal(t, want, got)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", RenderString(nil))
}

func TestRender_NegativeCoordinates(t *testing.T) {
	got := RenderString([]geom.Point{{ID: 1, X: -1.5, Y: -0.000001}})
	assert.Equal(t, "-1.500000 -0.000001\n", got)
}

func TestMatch_RoundTrip(t *testing.T) {
	snap, err := NewSnapshot(testutil.InspectionPoints())
	require.NoError(t, err)

	rendered := RenderString(snap.Points())
	report, err := Match(strings.NewReader(rendered), snap, MatchTolerance)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Matched())
	assert.Equal(t, 0, report.Unmatched())
	assert.Equal(t, 0, report.Ambiguous())

	// Each line re-derives the full identity of its point.
	assert.Equal(t, int64(1), report.Lines[0].Candidates[0].ID)
	assert.Equal(t, int64(1), report.Lines[0].Candidates[0].GroupID)
}

func TestMatch_WithinTolerance(t *testing.T) {
	snap, err := NewSnapshot([]geom.Point{{ID: 1, X: 1, Y: 2}})
	require.NoError(t, err)

	report, err := Match(strings.NewReader("1.0000005 1.9999995\n"), snap, MatchTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Matched())
}

func TestMatch_Unmatched(t *testing.T) {
	snap, err := NewSnapshot([]geom.Point{{ID: 1, X: 1, Y: 2}})
	require.NoError(t, err)

	report, err := Match(strings.NewReader("1.00001 2.0\n"), snap, MatchTolerance)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Matched())
	assert.Equal(t, 1, report.Unmatched())
}

func TestMatch_AmbiguousOnSharedCoordinates(t *testing.T) {
	snap, err := NewSnapshot([]geom.Point{
		{ID: 1, X: 3, Y: 3, GroupID: 1},
		{ID: 2, X: 3, Y: 3, GroupID: 2},
	})
	require.NoError(t, err)

	report, err := Match(strings.NewReader("3.000000 3.000000\n"), snap, MatchTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ambiguous())
	assert.Len(t, report.Lines[0].Candidates, 2)
	// Candidates come back in load order.
	assert.Equal(t, int64(1), report.Lines[0].Candidates[0].ID)
}

func TestMatch_SkipsBlankLines(t *testing.T) {
	snap, err := NewSnapshot([]geom.Point{{ID: 1, X: 1, Y: 2}})
	require.NoError(t, err)

	report, err := Match(strings.NewReader("\n1.000000 2.000000\n\n"), snap, MatchTolerance)
	require.NoError(t, err)
	assert.Len(t, report.Lines, 1)
}

func TestMatch_MalformedLine(t *testing.T) {
	snap, err := NewSnapshot(nil)
	require.NoError(t, err)

	_, err = Match(strings.NewReader("1.0\n"), snap, MatchTolerance)
	assert.Error(t, err)

	_, err = Match(strings.NewReader("a b\n"), snap, MatchTolerance)
	assert.Error(t, err)
}
