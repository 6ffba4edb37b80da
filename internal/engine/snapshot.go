package engine

import "github.com/roach88/inspectq/internal/geom"

// Snapshot is an immutable view of all points for one or more evaluations.
//
// Points are held in load order, which is the final tiebreaker of the
// canonical output ordering. The snapshot is read-only after construction;
// concurrent evaluations may share one snapshot without locking.
type Snapshot struct {
	points []geom.Point
	byID   map[int64]int // point id -> index into points
}

// NewSnapshot builds a snapshot from points in load order.
//
// The slice is copied so later caller mutations cannot leak into running
// evaluations. Ids must be unique within one snapshot; a duplicate id
// returns an EvalError with ErrCodeDuplicatePoint.
func NewSnapshot(points []geom.Point) (*Snapshot, error) {
	s := &Snapshot{
		points: make([]geom.Point, len(points)),
		byID:   make(map[int64]int, len(points)),
	}
	copy(s.points, points)
	for i, p := range s.points {
		if _, dup := s.byID[p.ID]; dup {
			return nil, NewDuplicatePointError(p.ID)
		}
		s.byID[p.ID] = i
	}
	return s, nil
}

// Len returns the number of points in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.points)
}

// Points returns the points in load order. The returned slice is shared;
// callers must not modify it.
func (s *Snapshot) Points() []geom.Point {
	return s.points
}

// ByID looks up a point by identity.
func (s *Snapshot) ByID(id int64) (geom.Point, bool) {
	i, ok := s.byID[id]
	if !ok {
		return geom.Point{}, false
	}
	return s.points[i], true
}
