// Package engine implements the point-filtering query evaluator.
//
// The engine computes, for a point snapshot, a valid region, and a query
// expression, the exact subset of points satisfying the expression, in the
// canonical output order.
//
// ARCHITECTURE:
//
// Evaluation Pipeline:
//  1. Structural validation of the expression tree (fail fast, no partial
//     results).
//  2. Group classification against the valid region, computed at most once
//     per evaluation and only if some Crop node applies the properness
//     filter.
//  3. Recursive tree evaluation: Crop leaves filter the snapshot into
//     id-sets; And nodes intersect children's sets; Or nodes union them.
//  4. Assembly: the root id-set is mapped back to points and stably sorted
//     into canonical (y, x) order.
//
// CRITICAL PATTERNS:
//
// Identity Sets:
// All intermediate sets are keyed by point id, never by coordinates. Two
// distinct points that share coordinates are never conflated.
//
// Per-Evaluation State:
// The properness table is a value threaded through one Evaluate call. It is
// never cached across calls, because the snapshot or valid region may
// differ between evaluations.
//
// Deterministic Output:
// The output ordering is a hard contract - ascending y, ties by ascending
// x, remaining ties in load order. Callers compare results positionally, so
// any internal iteration order (including parallel child evaluation) must
// not leak into the output.
//
// Purity:
// Evaluate performs no I/O, holds no state between calls, and returns the
// same output for the same inputs. Independent evaluations over the same
// (read-only) snapshot may run concurrently without locking.
package engine
