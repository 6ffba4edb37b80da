// Package queryspec reads and writes the query-specification document.
//
// A query specification is a JSON document with two top-level fields: the
// valid region used for group-properness classification, and the query
// expression tree.
//
//	{
//	  "valid_region": {
//	    "p_min": {"x": 0, "y": 0},
//	    "p_max": {"x": 1000, "y": 1000}
//	  },
//	  "query": {
//	    "operator_and": [
//	      {"operator_crop": {"region": {...}}},
//	      {"operator_crop": {"region": {...}, "category": 1,
//	                         "one_of_groups": [2, 3], "proper": true}}
//	    ]
//	  }
//	}
//
// Every query node carries exactly one of operator_crop, operator_and or
// operator_or; the latter two hold nonempty arrays of sub-nodes.
//
// Documents are validated against an embedded CUE schema before decoding,
// so malformed documents (unknown operators, missing regions, wrong types,
// empty operator arrays) fail with positioned schema errors rather than
// partial decodes. Decoding preserves the three-valued optional fields:
// an absent "proper" decodes to nil, never false, and an absent
// "one_of_groups" decodes to a nil slice, never an empty one.
package queryspec
