package query

import "github.com/roach88/inspectq/internal/geom"

// Expr represents a node in the query-expression tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the evaluator and the wire codec.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Crop is the leaf filter. A point is accepted iff all present filters
// accept it:
//
//  1. Its coordinates lie inside Region (inclusive).
//  2. If Category is non-nil, its category equals *Category.
//  3. If Groups is non-nil, its group id is one of Groups.
//  4. If Proper is non-nil, its group's properness classification equals
//     *Proper.
//
// The four tests are conjunctive and independent: any subset of the three
// optional filters may be present, including none (a bare spatial crop).
type Crop struct {
	// Region is the spatial crop window.
	Region geom.Rect

	// Category, when non-nil, keeps only points of exactly this category.
	Category *int64

	// Groups, when non-nil, keeps only points whose group id appears in
	// the slice. A group id with no members contributes nothing - the
	// filter is existence-based, not existence-asserting. An empty
	// non-nil slice matches no points.
	Groups []int64

	// Proper, when non-nil, keeps only points whose group is classified
	// proper (*Proper == true) or improper (*Proper == false) against the
	// evaluation's valid region.
	Proper *bool
}

func (Crop) exprNode() {}

// And intersects its children's result sets by point identity.
// Children must be nonempty; evaluation order does not affect the result.
type And struct {
	Children []Expr
}

func (And) exprNode() {}

// Or unions its children's result sets by point identity.
// Children must be nonempty.
type Or struct {
	Children []Expr
}

func (Or) exprNode() {}

// CategoryOf returns a pointer for use as Crop.Category.
func CategoryOf(c int64) *int64 { return &c }

// ProperOf returns a pointer for use as Crop.Proper.
func ProperOf(p bool) *bool { return &p }
