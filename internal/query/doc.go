// Package query defines the declarative query-expression tree evaluated by
// the engine.
//
// A query is a rooted tree of three node kinds:
//
//   - Crop: leaf filter selecting points by spatial region, optionally
//     restricted by category equality, group membership, and group
//     properness.
//   - And: set intersection of its children's results.
//   - Or: set union of its children's results.
//
// SEALED INTERFACE:
//
// Expr is a sealed interface using the marker method pattern. Only types in
// this package implement it, so consumers can type-switch exhaustively:
//
//	switch n := e.(type) {
//	case query.Crop:
//	    // leaf
//	case query.And, query.Or:
//	    // composite
//	}
//
// OPTIONAL FILTERS:
//
// Crop's Category, Groups, and Proper fields are three-valued: a nil
// pointer (or nil slice) means the filter is absent, which is distinct from
// any present value. In particular Proper=nil ("don't apply the properness
// filter") must never be conflated with Proper=false ("keep only improper
// groups").
//
// The tree is owned by the caller and read-only for the engine; depth and
// branching are unbounded but finite, and And/Or require at least one child
// (an empty composition is a malformed query, not an implicit identity).
package query
