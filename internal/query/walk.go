package query

// Walk visits every node of the tree in preorder (parent before children).
// If fn returns false the walk stops early.
//
// Walk tolerates nil nodes so that Validate can report them; fn is not
// called for a nil node, whether untyped or a typed-nil pointer.
func Walk(e Expr, fn func(Expr) bool) {
	walk(e, fn)
}

// isNilNode reports whether the node is absent. An interface holding a
// typed-nil *Crop/*And/*Or is as absent as an untyped nil, but compares
// unequal to nil; every traversal must use this check before
// dereferencing.
func isNilNode(e Expr) bool {
	switch n := e.(type) {
	case *Crop:
		return n == nil
	case *And:
		return n == nil
	case *Or:
		return n == nil
	}
	return e == nil
}

func walk(e Expr, fn func(Expr) bool) bool {
	if isNilNode(e) {
		return true
	}
	if !fn(e) {
		return false
	}
	switch n := e.(type) {
	case And:
		return walkChildren(n.Children, fn)
	case *And:
		return walkChildren(n.Children, fn)
	case Or:
		return walkChildren(n.Children, fn)
	case *Or:
		return walkChildren(n.Children, fn)
	}
	return true
}

func walkChildren(children []Expr, fn func(Expr) bool) bool {
	for _, c := range children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// NeedsProper reports whether any Crop in the tree applies the properness
// filter. The engine uses this to skip group classification entirely for
// queries that never reference properness.
func NeedsProper(e Expr) bool {
	needs := false
	Walk(e, func(n Expr) bool {
		switch c := n.(type) {
		case Crop:
			if c.Proper != nil {
				needs = true
				return false
			}
		case *Crop:
			if c.Proper != nil {
				needs = true
				return false
			}
		}
		return true
	})
	return needs
}
