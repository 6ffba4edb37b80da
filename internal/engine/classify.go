package engine

import "github.com/roach88/inspectq/internal/geom"

// ClassifyGroups computes the properness table: for each group id occurring
// in points, true iff every point of that group lies inside validRegion
// (inclusive).
//
// A group with zero points is vacuously proper under the universal
// quantifier; such a group never appears in the returned map because groups
// are derived from existing points, but callers relying on the quantifier
// semantics (e.g. via groupProper) get the correct answer without a
// special case.
//
// The table is scoped to one evaluation. It must never be reused with a
// different point set or valid region.
func ClassifyGroups(points []geom.Point, validRegion geom.Rect) map[int64]bool {
	proper := make(map[int64]bool)
	for _, p := range points {
		inside := validRegion.ContainsPoint(p)
		if cur, seen := proper[p.GroupID]; seen {
			proper[p.GroupID] = cur && inside
		} else {
			proper[p.GroupID] = inside
		}
	}
	return proper
}

// groupProper reports whether a group is proper under the given table,
// applying the vacuous-truth rule for groups with no points. The crop
// filter does not use it: there a point's group missing from the table is
// an internal-consistency error, never a point-less group.
func groupProper(table map[int64]bool, groupID int64) bool {
	if v, ok := table[groupID]; ok {
		return v
	}
	// No points in the group: all of them are trivially inside.
	return true
}
