package engine

import (
	"errors"
	"fmt"
)

// EvalError represents a contract violation detected during evaluation.
//
// Evaluation errors include:
//   - Malformed expression: empty And/Or, invalid crop region, nil node
//   - Invalid valid region: properness requested without a usable region
//   - Duplicate point id: snapshot construction rejects duplicate identities
//   - Unknown group: a classified point's group is missing from the table
//
// None of these are retried internally - they indicate a caller bug or an
// internal-consistency failure, not a transient condition.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// Path identifies the offending expression node, when known.
	Path string
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeInvalidExpr indicates a malformed query expression.
	ErrCodeInvalidExpr EvalErrorCode = "INVALID_EXPR"

	// ErrCodeInvalidValidRegion indicates the valid region is unusable for
	// a query that applies the properness filter.
	ErrCodeInvalidValidRegion EvalErrorCode = "INVALID_VALID_REGION"

	// ErrCodeDuplicatePoint indicates a snapshot contained two points with
	// the same id.
	ErrCodeDuplicatePoint EvalErrorCode = "DUPLICATE_POINT"

	// ErrCodeUnknownGroup indicates a point references a group absent from
	// the properness table. Cannot occur when the table is built from the
	// same snapshot; reported as an internal-consistency error.
	ErrCodeUnknownGroup EvalErrorCode = "UNKNOWN_GROUP"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformedQuery returns true if the error reports a malformed
// expression or an unusable valid region. Uses errors.As to handle
// wrapped errors.
func IsMalformedQuery(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeInvalidExpr || ee.Code == ErrCodeInvalidValidRegion
	}
	return false
}

// NewInvalidExprError creates an EvalError for a malformed expression.
func NewInvalidExprError(path, message string) *EvalError {
	return &EvalError{Code: ErrCodeInvalidExpr, Message: message, Path: path}
}

// NewInvalidValidRegionError creates an EvalError for an unusable valid
// region.
func NewInvalidValidRegionError(message string) *EvalError {
	return &EvalError{Code: ErrCodeInvalidValidRegion, Message: message}
}

// NewDuplicatePointError creates an EvalError for a duplicate point id.
func NewDuplicatePointError(id int64) *EvalError {
	return &EvalError{
		Code:    ErrCodeDuplicatePoint,
		Message: fmt.Sprintf("point id %d appears more than once", id),
	}
}

// NewUnknownGroupError creates an EvalError for a group missing from the
// properness table.
func NewUnknownGroupError(groupID int64) *EvalError {
	return &EvalError{
		Code:    ErrCodeUnknownGroup,
		Message: fmt.Sprintf("group %d missing from properness table", groupID),
	}
}
