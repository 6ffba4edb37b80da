package geom

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Contains_Inclusive(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"interior", 5, 5, true},
		{"min corner", 0, 0, true},
		{"max corner", 10, 10, true},
		{"left edge", 0, 5, true},
		{"right edge", 10, 5, true},
		{"bottom edge", 5, 0, true},
		{"top edge", 5, 10, true},
		{"outside left", -0.000001, 5, false},
		{"outside right", 10.000001, 5, false},
		{"outside below", 5, -1, false},
		{"outside above", 5, 11, false},
		{"outside both", 100, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.x, tt.y))
		})
	}
}

func TestRect_Contains_Degenerate(t *testing.T) {
	// Equal corners: contains exactly that coordinate.
	r := NewRect(3, 4, 3, 4)

	assert.True(t, r.Valid())
	assert.True(t, r.Contains(3, 4))
	assert.False(t, r.Contains(3, 4.0000001))
	assert.False(t, r.Contains(2.9999999, 4))
}

func TestRect_Valid(t *testing.T) {
	assert.True(t, NewRect(0, 0, 10, 10).Valid())
	assert.True(t, NewRect(5, 5, 5, 5).Valid())
	assert.False(t, NewRect(10, 0, 0, 10).Valid())
	assert.False(t, NewRect(0, 10, 10, 0).Valid())
	assert.True(t, NewRect(-10, -10, -5, -5).Valid())
}

func TestRect_ContainsPoint(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	assert.True(t, r.ContainsPoint(Point{ID: 1, X: 10, Y: 0}))
	assert.False(t, r.ContainsPoint(Point{ID: 2, X: 10.5, Y: 0}))
}

func TestRect_Intersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	assert.True(t, a.Intersects(NewRect(5, 5, 15, 15)))
	assert.True(t, a.Intersects(NewRect(2, 2, 3, 3)), "contained rect intersects")
	// Touching at a single corner still intersects.
	assert.True(t, a.Intersects(NewRect(10, 10, 20, 20)))
	assert.False(t, a.Intersects(NewRect(10.1, 10.1, 20, 20)))
	assert.False(t, a.Intersects(NewRect(-5, -5, -1, -1)))
}

func TestLess_CanonicalOrder(t *testing.T) {
	// Ascending y first, then ascending x.
	assert.True(t, Less(Point{X: 9, Y: 0}, Point{X: 0, Y: 1}))
	assert.True(t, Less(Point{X: 0, Y: 1}, Point{X: 1, Y: 1}))
	assert.False(t, Less(Point{X: 1, Y: 1}, Point{X: 0, Y: 1}))

	// Equal coordinates compare equal in both directions.
	p := Point{ID: 1, X: 2, Y: 3}
	q := Point{ID: 2, X: 2, Y: 3}
	assert.False(t, Less(p, q))
	assert.False(t, Less(q, p))
}

func TestLess_StableSortKeepsLoadOrder(t *testing.T) {
	// Two points share coordinates; a stable sort must keep them in their
	// original order regardless of the rest of the slice.
	points := []Point{
		{ID: 10, X: 5, Y: 5},
		{ID: 11, X: 0, Y: 0},
		{ID: 12, X: 5, Y: 5},
	}
	sort.SliceStable(points, func(i, j int) bool { return Less(points[i], points[j]) })

	assert.Equal(t, int64(11), points[0].ID)
	assert.Equal(t, int64(10), points[1].ID)
	assert.Equal(t, int64(12), points[2].ID)
}
