package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/testutil"
)

func TestClassifyGroups(t *testing.T) {
	table := ClassifyGroups(testutil.InspectionPoints(), geom.NewRect(0, 0, 10, 10))

	assert.Len(t, table, 2)
	assert.True(t, table[1], "group 1 has all points inside")
	assert.False(t, table[2], "group 2 has a point outside")
}

func TestClassifyGroups_SingleOutsiderMakesImproper(t *testing.T) {
	points := []geom.Point{
		{ID: 1, X: 1, Y: 1, GroupID: 5},
		{ID: 2, X: 2, Y: 2, GroupID: 5},
		{ID: 3, X: 3, Y: 3, GroupID: 5},
		{ID: 4, X: 10.000001, Y: 1, GroupID: 5},
	}
	table := ClassifyGroups(points, geom.NewRect(0, 0, 10, 10))

	assert.False(t, table[5])
}

func TestClassifyGroups_BoundaryPointIsInside(t *testing.T) {
	points := []geom.Point{
		{ID: 1, X: 0, Y: 0, GroupID: 1},
		{ID: 2, X: 10, Y: 10, GroupID: 1},
	}
	table := ClassifyGroups(points, geom.NewRect(0, 0, 10, 10))

	assert.True(t, table[1], "points exactly on the boundary count as inside")
}

func TestClassifyGroups_NoPoints(t *testing.T) {
	table := ClassifyGroups(nil, geom.NewRect(0, 0, 10, 10))
	assert.Empty(t, table)
}

func TestGroupProper_VacuousTruthForEmptyGroup(t *testing.T) {
	table := ClassifyGroups(nil, geom.NewRect(0, 0, 10, 10))

	// A group with zero points satisfies the universal quantifier.
	assert.True(t, groupProper(table, 42))
}

func TestClassifyGroups_OrderIndependent(t *testing.T) {
	points := testutil.InspectionPoints()
	reversed := make([]geom.Point, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}

	valid := geom.NewRect(0, 0, 10, 10)
	assert.Equal(t, ClassifyGroups(points, valid), ClassifyGroups(reversed, valid))
}
