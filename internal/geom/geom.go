package geom

import "fmt"

// Point is a single detected feature on an inspected part.
//
// Points are loaded once and never mutated. ID is the point's identity for
// all set operations; coordinates may legitimately collide across points,
// so two points with equal (X, Y) are still distinct results.
type Point struct {
	ID       int64
	X        float64
	Y        float64
	GroupID  int64
	Category int64
}

// Vec is a 2-D coordinate pair.
type Vec struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle given by its min and max corners.
//
// A well-formed Rect satisfies Min.X <= Max.X and Min.Y <= Max.Y. A
// degenerate rectangle with equal corners is well-formed and contains at
// most the points exactly on that corner.
type Rect struct {
	Min Vec
	Max Vec
}

// NewRect constructs a Rect from min/max coordinates.
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{Min: Vec{X: minX, Y: minY}, Max: Vec{X: maxX, Y: maxY}}
}

// Valid reports whether the rectangle satisfies Min <= Max in both
// dimensions.
func (r Rect) Valid() bool {
	return r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

// Contains reports whether the coordinate (x, y) lies inside the rectangle.
//
// Containment is inclusive on all four edges: equality at a boundary counts
// as contained. Comparison is exact float64 comparison, no tolerance.
func (r Rect) Contains(x, y float64) bool {
	return r.Min.X <= x && x <= r.Max.X && r.Min.Y <= y && y <= r.Max.Y
}

// ContainsPoint reports whether the point's coordinates lie inside the
// rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Contains(p.X, p.Y)
}

// Intersects reports whether two rectangles share at least one coordinate.
// Rectangles that only touch at an edge or corner intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// String formats the rectangle for logs and error messages.
func (r Rect) String() string {
	return fmt.Sprintf("[(%g,%g)-(%g,%g)]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Less is the canonical result ordering: ascending Y, ties broken by
// ascending X. Points that tie on both coordinates compare equal here;
// callers must use a stable sort so such points keep their load order.
func Less(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
