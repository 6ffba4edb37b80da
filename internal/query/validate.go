package query

import "fmt"

// ValidationError describes the first structural defect found in a query
// tree. Path identifies the offending node, e.g. "query.and[1].crop.region".
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query at %s: %s", e.Path, e.Message)
}

// Validate checks the structural invariants of a query tree:
//
//   - every node is non-nil (a typed-nil pointer node counts as nil),
//   - And/Or nodes have at least one child,
//   - every Crop region satisfies min <= max in both dimensions.
//
// Validation fails fast: the first defect aborts with a *ValidationError
// and no further nodes are inspected. A valid tree returns nil.
//
// Validate is a pure function with no side effects.
func Validate(e Expr) error {
	return validateNode(e, "query")
}

func validateNode(e Expr, path string) error {
	if isNilNode(e) {
		return &ValidationError{Path: path, Message: "nil node"}
	}

	switch n := e.(type) {
	case Crop:
		return validateCrop(n, path+".crop")
	case *Crop:
		return validateCrop(*n, path+".crop")
	case And:
		return validateChildren(n.Children, path+".and")
	case *And:
		return validateChildren(n.Children, path+".and")
	case Or:
		return validateChildren(n.Children, path+".or")
	case *Or:
		return validateChildren(n.Children, path+".or")
	default:
		// Unreachable for trees built from this package's sealed types.
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown node type %T", e)}
	}
}

func validateCrop(c Crop, path string) error {
	if !c.Region.Valid() {
		return &ValidationError{
			Path:    path + ".region",
			Message: fmt.Sprintf("p_min must be <= p_max in both dimensions, got %s", c.Region),
		}
	}
	return nil
}

func validateChildren(children []Expr, path string) error {
	if len(children) == 0 {
		return &ValidationError{Path: path, Message: "requires at least one child"}
	}
	for i, c := range children {
		if err := validateNode(c, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
