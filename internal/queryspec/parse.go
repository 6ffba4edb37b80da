package queryspec

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/query"
)

//go:embed schema.cue
var schemaSource string

// Spec is a decoded query specification: the valid region for properness
// classification and the query expression tree.
type Spec struct {
	ValidRegion geom.Rect
	Query       query.Expr
}

// DocumentError reports a query document that does not conform to the
// schema. Details carries the CUE error listing with file positions.
type DocumentError struct {
	Message string
	Details string
}

func (e *DocumentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s:\n%s", e.Message, e.Details)
	}
	return e.Message
}

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
)

// specSchema compiles the embedded schema once and returns the #Spec
// definition. The schema is trusted input; a compile failure is a
// programming error.
func specSchema() (*cue.Context, cue.Value) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		compiled := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			panic(fmt.Sprintf("embedded schema.cue does not compile: %v", err))
		}
		schemaDef = compiled.LookupPath(cue.ParsePath("#Spec"))
	})
	return schemaCtx, schemaDef
}

// ParseFile reads and parses a query-specification file.
func ParseFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	return parse(path, data)
}

// Parse parses a query-specification document.
func Parse(data []byte) (*Spec, error) {
	return parse("query.json", data)
}

func parse(filename string, data []byte) (*Spec, error) {
	ctx, def := specSchema()

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return nil, &DocumentError{
			Message: "query document is not valid JSON",
			Details: cueerrors.Details(err, nil),
		}
	}

	unified := def.Unify(ctx.BuildExpr(expr))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &DocumentError{
			Message: "query document does not match schema",
			Details: cueerrors.Details(err, nil),
		}
	}

	// The document is schema-valid; decode the raw JSON into wire structs.
	var w wireSpec
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode query document: %w", err)
	}

	root, err := decodeNode(w.Query, "query")
	if err != nil {
		return nil, err
	}

	return &Spec{
		ValidRegion: w.ValidRegion.rect(),
		Query:       root,
	}, nil
}

// Wire types mirror the JSON shapes. Optional crop fields are pointers or
// nil slices so absence survives decoding.

type wireSpec struct {
	ValidRegion wireRegion `json:"valid_region"`
	Query       wireNode   `json:"query"`
}

type wireVec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireRegion struct {
	PMin wireVec `json:"p_min"`
	PMax wireVec `json:"p_max"`
}

func (r wireRegion) rect() geom.Rect {
	return geom.NewRect(r.PMin.X, r.PMin.Y, r.PMax.X, r.PMax.Y)
}

type wireCrop struct {
	Region      wireRegion `json:"region"`
	Category    *int64     `json:"category,omitempty"`
	OneOfGroups []int64    `json:"one_of_groups,omitempty"`
	Proper      *bool      `json:"proper,omitempty"`
}

type wireNode struct {
	Crop *wireCrop  `json:"operator_crop,omitempty"`
	And  []wireNode `json:"operator_and,omitempty"`
	Or   []wireNode `json:"operator_or,omitempty"`
}

func decodeNode(n wireNode, path string) (query.Expr, error) {
	operators := 0
	if n.Crop != nil {
		operators++
	}
	if n.And != nil {
		operators++
	}
	if n.Or != nil {
		operators++
	}
	if operators != 1 {
		// The schema already rejects this; kept so decodeNode is safe on
		// wire values built outside parse.
		return nil, &DocumentError{
			Message: fmt.Sprintf("%s: node must carry exactly one operator, got %d", path, operators),
		}
	}

	switch {
	case n.Crop != nil:
		return query.Crop{
			Region:   n.Crop.Region.rect(),
			Category: n.Crop.Category,
			Groups:   n.Crop.OneOfGroups,
			Proper:   n.Crop.Proper,
		}, nil
	case n.And != nil:
		children, err := decodeChildren(n.And, path+".operator_and")
		if err != nil {
			return nil, err
		}
		return query.And{Children: children}, nil
	default:
		children, err := decodeChildren(n.Or, path+".operator_or")
		if err != nil {
			return nil, err
		}
		return query.Or{Children: children}, nil
	}
}

func decodeChildren(nodes []wireNode, path string) ([]query.Expr, error) {
	children := make([]query.Expr, 0, len(nodes))
	for i, n := range nodes {
		child, err := decodeNode(n, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
