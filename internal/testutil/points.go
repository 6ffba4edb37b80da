// Package testutil provides shared fixtures for engine and harness tests.
package testutil

import "github.com/roach88/inspectq/internal/geom"

// InspectionPoints returns the standard 4-point fixture used across the
// test suite:
//
//	id 1: (0, 0)     group 1, category 1
//	id 2: (5, 5)     group 1, category 1
//	id 3: (100, 100) group 2, category 2
//	id 4: (5, 0)     group 2, category 1
//
// With valid region (0,0)-(10,10), group 1 is proper (both points inside)
// and group 2 is improper (id 3 outside).
func InspectionPoints() []geom.Point {
	return []geom.Point{
		{ID: 1, X: 0, Y: 0, GroupID: 1, Category: 1},
		{ID: 2, X: 5, Y: 5, GroupID: 1, Category: 1},
		{ID: 3, X: 100, Y: 100, GroupID: 2, Category: 2},
		{ID: 4, X: 5, Y: 0, GroupID: 2, Category: 1},
	}
}

// Grid returns n*n points on an integer grid, one group per row and
// category alternating per column, ids assigned in row-major load order
// starting at 1.
func Grid(n int) []geom.Point {
	points := make([]geom.Point, 0, n*n)
	id := int64(1)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			points = append(points, geom.Point{
				ID:       id,
				X:        float64(col),
				Y:        float64(row),
				GroupID:  int64(row + 1),
				Category: int64(col%2 + 1),
			})
			id++
		}
	}
	return points
}
