package queryspec

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/query"
)

// Encode renders a Spec back to the wire JSON. Absent optional filters are
// omitted; a present-but-empty one_of_groups list is kept, since it means
// "match no group" rather than "no filter".
func Encode(s *Spec) ([]byte, error) {
	node, err := encodeNode(s.Query)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{
		"valid_region": encodeRegion(s.ValidRegion),
		"query":        node,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal query document: %w", err)
	}
	return data, nil
}

func encodeRegion(r geom.Rect) map[string]any {
	return map[string]any{
		"p_min": map[string]any{"x": r.Min.X, "y": r.Min.Y},
		"p_max": map[string]any{"x": r.Max.X, "y": r.Max.Y},
	}
}

func encodeNode(e query.Expr) (map[string]any, error) {
	switch n := e.(type) {
	case query.Crop:
		return encodeCrop(n), nil
	case *query.Crop:
		return encodeCrop(*n), nil
	case query.And:
		children, err := encodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"operator_and": children}, nil
	case *query.And:
		children, err := encodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"operator_and": children}, nil
	case query.Or:
		children, err := encodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"operator_or": children}, nil
	case *query.Or:
		children, err := encodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"operator_or": children}, nil
	default:
		return nil, fmt.Errorf("cannot encode node type %T", e)
	}
}

func encodeCrop(c query.Crop) map[string]any {
	crop := map[string]any{
		"region": encodeRegion(c.Region),
	}
	if c.Category != nil {
		crop["category"] = *c.Category
	}
	if c.Groups != nil {
		crop["one_of_groups"] = c.Groups
	}
	if c.Proper != nil {
		crop["proper"] = *c.Proper
	}
	return map[string]any{"operator_crop": crop}
}

func encodeChildren(children []query.Expr) ([]any, error) {
	out := make([]any, 0, len(children))
	for _, c := range children {
		node, err := encodeNode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}
