package queryspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inspectq/internal/geom"
	"github.com/roach88/inspectq/internal/query"
)

func TestParse_BareCrop(t *testing.T) {
	doc := `{
		"valid_region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 1000, "y": 1000}},
		"query": {"operator_crop": {"region": {"p_min": {"x": 1, "y": 2}, "p_max": {"x": 3, "y": 4}}}}
	}`

	spec, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, geom.NewRect(0, 0, 1000, 1000), spec.ValidRegion)

	crop, ok := spec.Query.(query.Crop)
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(1, 2, 3, 4), crop.Region)
	assert.Nil(t, crop.Category)
	assert.Nil(t, crop.Groups)
	assert.Nil(t, crop.Proper)
}

func TestParse_CropWithAllFilters(t *testing.T) {
	doc := `{
		"valid_region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 10, "y": 10}},
		"query": {"operator_crop": {
			"region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 10, "y": 10}},
			"category": 1,
			"one_of_groups": [2, 3],
			"proper": true
		}}
	}`

	spec, err := Parse([]byte(doc))
	require.NoError(t, err)

	crop := spec.Query.(query.Crop)
	require.NotNil(t, crop.Category)
	assert.Equal(t, int64(1), *crop.Category)
	assert.Equal(t, []int64{2, 3}, crop.Groups)
	require.NotNil(t, crop.Proper)
	assert.True(t, *crop.Proper)
}

func TestParse_AbsentProperDistinctFromFalse(t *testing.T) {
	region := `{"p_min": {"x": 0, "y": 0}, "p_max": {"x": 10, "y": 10}}`

	spec, err := Parse([]byte(`{
		"valid_region": ` + region + `,
		"query": {"operator_crop": {"region": ` + region + `}}
	}`))
	require.NoError(t, err)
	assert.Nil(t, spec.Query.(query.Crop).Proper, "absent proper decodes to nil")

	spec, err = Parse([]byte(`{
		"valid_region": ` + region + `,
		"query": {"operator_crop": {"region": ` + region + `, "proper": false}}
	}`))
	require.NoError(t, err)
	proper := spec.Query.(query.Crop).Proper
	require.NotNil(t, proper, "explicit false decodes to a present value")
	assert.False(t, *proper)
}

func TestParse_NestedBooleanTree(t *testing.T) {
	doc := `{
		"valid_region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 100, "y": 100}},
		"query": {"operator_or": [
			{"operator_and": [
				{"operator_crop": {"region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 50, "y": 50}}}},
				{"operator_crop": {"region": {"p_min": {"x": 25, "y": 25}, "p_max": {"x": 75, "y": 75}}, "category": 2}}
			]},
			{"operator_crop": {"region": {"p_min": {"x": 90, "y": 90}, "p_max": {"x": 100, "y": 100}}, "proper": false}}
		]}
	}`

	spec, err := Parse([]byte(doc))
	require.NoError(t, err)

	or, ok := spec.Query.(query.Or)
	require.True(t, ok)
	require.Len(t, or.Children, 2)

	and, ok := or.Children[0].(query.And)
	require.True(t, ok)
	require.Len(t, and.Children, 2)

	leaf := and.Children[1].(query.Crop)
	require.NotNil(t, leaf.Category)
	assert.Equal(t, int64(2), *leaf.Category)

	// The decoded tree passes structural validation.
	assert.NoError(t, query.Validate(spec.Query))
}

func TestParse_SchemaErrors(t *testing.T) {
	region := `{"p_min": {"x": 0, "y": 0}, "p_max": {"x": 10, "y": 10}}`

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"valid_region":`},
		{"missing valid_region", `{"query": {"operator_crop": {"region": ` + region + `}}}`},
		{"missing query", `{"valid_region": ` + region + `}`},
		{"unknown operator", `{"valid_region": ` + region + `, "query": {"operator_not": []}}`},
		{
			"two operators on one node",
			`{"valid_region": ` + region + `,
			 "query": {"operator_crop": {"region": ` + region + `}, "operator_and": []}}`,
		},
		{"empty operator_and", `{"valid_region": ` + region + `, "query": {"operator_and": []}}`},
		{"empty operator_or", `{"valid_region": ` + region + `, "query": {"operator_or": []}}`},
		{"crop without region", `{"valid_region": ` + region + `, "query": {"operator_crop": {"category": 1}}}`},
		{
			"category wrong type",
			`{"valid_region": ` + region + `,
			 "query": {"operator_crop": {"region": ` + region + `, "category": "one"}}}`,
		},
		{
			"proper wrong type",
			`{"valid_region": ` + region + `,
			 "query": {"operator_crop": {"region": ` + region + `, "proper": "yes"}}}`,
		},
		{
			"region missing corner",
			`{"valid_region": {"p_min": {"x": 0, "y": 0}},
			 "query": {"operator_crop": {"region": ` + region + `}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var derr *DocumentError
			assert.ErrorAs(t, err, &derr)
		})
	}
}

func TestParseFile(t *testing.T) {
	doc := `{
		"valid_region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 10, "y": 10}},
		"query": {"operator_crop": {"region": {"p_min": {"x": 0, "y": 0}, "p_max": {"x": 5, "y": 5}}}}
	}`
	path := filepath.Join(t.TempDir(), "query.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	spec, err := ParseFile(path)
	require.NoError(t, err)
	assert.IsType(t, query.Crop{}, spec.Query)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	spec := &Spec{
		ValidRegion: geom.NewRect(0, 0, 100, 100),
		Query: query.Or{Children: []query.Expr{
			query.And{Children: []query.Expr{
				query.Crop{Region: geom.NewRect(0, 0, 50, 50), Category: query.CategoryOf(1)},
				query.Crop{Region: geom.NewRect(25, 25, 75, 75), Proper: query.ProperOf(true)},
			}},
			query.Crop{Region: geom.NewRect(90, 90, 100, 100), Groups: []int64{4, 5}},
		}},
	}

	data, err := Encode(spec)
	require.NoError(t, err)

	decoded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, spec.ValidRegion, decoded.ValidRegion)
	assert.Equal(t, spec.Query, decoded.Query)
}

func TestEncode_OmitsAbsentFilters(t *testing.T) {
	spec := &Spec{
		ValidRegion: geom.NewRect(0, 0, 10, 10),
		Query:       query.Crop{Region: geom.NewRect(0, 0, 5, 5)},
	}

	data, err := Encode(spec)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "proper")
	assert.NotContains(t, string(data), "category")
	assert.NotContains(t, string(data), "one_of_groups")
}
