package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/query"
)

// Evaluator runs query evaluations over point snapshots.
//
// A zero-configured Evaluator (engine.New()) evaluates sequentially with a
// discarded logger. The Evaluator itself is stateless between calls and
// safe for concurrent use; all per-evaluation state lives on the stack of
// one Evaluate call.
type Evaluator struct {
	parallelism int
	logger      *slog.Logger
	runGen      RunTokenGenerator
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithParallelism bounds the number of goroutines used to evaluate And/Or
// children concurrently. n <= 1 forces sequential evaluation (the
// default). Parallel evaluation is purely a performance optimization:
// intersection and union are commutative and associative, so the result is
// independent of the schedule.
func WithParallelism(n int) Option {
	return func(e *Evaluator) {
		e.parallelism = n
	}
}

// WithLogger sets the logger for evaluation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// WithRunTokens sets the run-token generator used to correlate log lines
// of one evaluation. Defaults to UUIDv7Generator.
func WithRunTokens(g RunTokenGenerator) Option {
	return func(e *Evaluator) {
		e.runGen = g
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		parallelism: 1,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		runGen:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the subset of snap's points satisfying expr, in
// canonical order.
//
// The expression is validated first; a malformed expression aborts with an
// EvalError and no partial results. Group properness is classified at most
// once, and only if some Crop node applies the properness filter; a query
// that needs properness additionally requires a well-formed validRegion.
//
// Evaluate is pure with respect to its inputs: no state survives the call
// and identical inputs always yield identical output, byte for byte.
func (e *Evaluator) Evaluate(snap *Snapshot, validRegion geom.Rect, expr query.Expr) ([]geom.Point, error) {
	if err := query.Validate(expr); err != nil {
		var verr *query.ValidationError
		if errors.As(err, &verr) {
			return nil, NewInvalidExprError(verr.Path, verr.Message)
		}
		return nil, fmt.Errorf("validate query: %w", err)
	}

	run := evalRun{snap: snap}
	token := e.runGen.Generate()
	log := e.logger.With("run", token)

	if query.NeedsProper(expr) {
		if !validRegion.Valid() {
			return nil, NewInvalidValidRegionError(
				fmt.Sprintf("properness is undefined without a valid region, got %s", validRegion))
		}
		run.proper = ClassifyGroups(snap.Points(), validRegion)
		log.Debug("classified groups", "groups", len(run.proper), "valid_region", validRegion.String())
		warnDisjointCrops(log, expr, validRegion)
	}

	ids, err := e.evalNode(&run, expr)
	if err != nil {
		return nil, err
	}

	result := assemble(snap, ids)
	log.Debug("evaluation complete", "points", len(result), "snapshot", snap.Len())
	return result, nil
}

// Evaluate runs a one-off sequential evaluation with default options.
func Evaluate(snap *Snapshot, validRegion geom.Rect, expr query.Expr) ([]geom.Point, error) {
	return New().Evaluate(snap, validRegion, expr)
}

// warnDisjointCrops flags crop windows sharing no coordinate with the
// valid region. Such crops are legal but usually a query-authoring
// mistake: combined with proper=true they cannot match anything.
func warnDisjointCrops(log *slog.Logger, expr query.Expr, validRegion geom.Rect) {
	query.Walk(expr, func(n query.Expr) bool {
		var region geom.Rect
		switch c := n.(type) {
		case query.Crop:
			region = c.Region
		case *query.Crop:
			region = c.Region
		default:
			return true
		}
		if !region.Intersects(validRegion) {
			log.Debug("crop region disjoint from valid region",
				"crop", region.String(), "valid_region", validRegion.String())
		}
		return true
	})
}

// evalRun carries the per-evaluation state threaded through the recursion.
// It never outlives one Evaluate call.
type evalRun struct {
	snap   *Snapshot
	proper map[int64]bool // nil when the query never references properness
}

// idSet is an intermediate result set keyed by point identity.
type idSet map[int64]struct{}

func (e *Evaluator) evalNode(run *evalRun, expr query.Expr) (idSet, error) {
	switch n := expr.(type) {
	case query.Crop:
		return evalCrop(run, n)
	case *query.Crop:
		if n == nil {
			return nil, NewInvalidExprError("", "nil node")
		}
		return evalCrop(run, *n)
	case query.And:
		return e.evalChildren(run, n.Children, intersect)
	case *query.And:
		if n == nil {
			return nil, NewInvalidExprError("", "nil node")
		}
		return e.evalChildren(run, n.Children, intersect)
	case query.Or:
		return e.evalChildren(run, n.Children, union)
	case *query.Or:
		if n == nil {
			return nil, NewInvalidExprError("", "nil node")
		}
		return e.evalChildren(run, n.Children, union)
	default:
		// Unreachable: Validate rejects unknown node types.
		return nil, NewInvalidExprError("", fmt.Sprintf("unknown node type %T", expr))
	}
}

// evalCrop filters the snapshot through the leaf's conjunctive tests.
// Filters are applied independently of each other's presence.
func evalCrop(run *evalRun, crop query.Crop) (idSet, error) {
	var groups map[int64]struct{}
	if crop.Groups != nil {
		groups = make(map[int64]struct{}, len(crop.Groups))
		for _, g := range crop.Groups {
			groups[g] = struct{}{}
		}
	}

	out := make(idSet)
	for _, p := range run.snap.Points() {
		if !crop.Region.ContainsPoint(p) {
			continue
		}
		if crop.Category != nil && p.Category != *crop.Category {
			continue
		}
		if groups != nil {
			if _, ok := groups[p.GroupID]; !ok {
				continue
			}
		}
		if crop.Proper != nil {
			isProper, known := run.proper[p.GroupID]
			if !known {
				return nil, NewUnknownGroupError(p.GroupID)
			}
			if isProper != *crop.Proper {
				continue
			}
		}
		out[p.ID] = struct{}{}
	}
	return out, nil
}

// evalChildren evaluates children (in parallel when configured) and folds
// their id-sets with combine. Children are independent: combine is
// commutative and associative, so neither the evaluation order nor the
// parallel schedule affects the result.
func (e *Evaluator) evalChildren(run *evalRun, children []query.Expr, combine func(idSet, idSet) idSet) (idSet, error) {
	results, err := e.evalAll(run, children)
	if err != nil {
		return nil, err
	}
	acc := results[0]
	for _, r := range results[1:] {
		acc = combine(acc, r)
	}
	return acc, nil
}

func (e *Evaluator) evalAll(run *evalRun, children []query.Expr) ([]idSet, error) {
	if e.parallelism <= 1 || len(children) == 1 {
		results := make([]idSet, 0, len(children))
		for _, c := range children {
			r, err := e.evalNode(run, c)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
		return results, nil
	}

	p := pool.NewWithResults[idSet]().WithErrors().WithMaxGoroutines(e.parallelism)
	for _, c := range children {
		child := c
		p.Go(func() (idSet, error) {
			return e.evalNode(run, child)
		})
	}
	return p.Wait()
}

// intersect keeps ids present in both sets. It consumes its arguments.
func intersect(a, b idSet) idSet {
	// Iterate the smaller set.
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(idSet, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// union merges b into a and returns a.
func union(a, b idSet) idSet {
	for id := range b {
		a[id] = struct{}{}
	}
	return a
}

// assemble maps the root id-set back to points and sorts them into
// canonical order. Scanning the snapshot in load order before the stable
// sort guarantees the load-order tiebreaker for points that share exact
// coordinates, independent of map iteration order.
func assemble(snap *Snapshot, ids idSet) []geom.Point {
	result := make([]geom.Point, 0, len(ids))
	for _, p := range snap.Points() {
		if _, ok := ids[p.ID]; ok {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return geom.Less(result[i], result[j])
	})
	return result
}
