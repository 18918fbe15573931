package errors

import (
	"fmt"

	"github.com/go-sparsity/sparsity"
)

// ShapeError occurs when matrix or index dimensions mismatch at construction,
// concatenation, or addition without alignment
type ShapeError struct {
	Op    string
	Left  sparsity.Shape
	Right sparsity.Shape
}

// Error returns a textual representation of this ShapeError
func (e ShapeError) Error() string {
	return fmt.Sprintf("%s: shapes %s and %s do not match", e.Op, e.Left, e.Right)
}

// NotFoundError occurs when a label lookup misses a key
type NotFoundError struct{ Label sparsity.Label }

// Error returns a textual representation of this NotFoundError
func (e NotFoundError) Error() string {
	return fmt.Sprintf("label %s not found in index", e.Label)
}

// BoundsError occurs when positional access is out of range
type BoundsError struct {
	Position int
	Length   int
}

// Error returns a textual representation of this BoundsError
func (e BoundsError) Error() string {
	return fmt.Sprintf("position %d out of range for axis of length %d", e.Position, e.Length)
}

// AmbiguousWriteError occurs when assignment targets an existing column
// label, or a reindex target axis has duplicate labels
type AmbiguousWriteError struct{ Label sparsity.Label }

// Error returns a textual representation of this AmbiguousWriteError
func (e AmbiguousWriteError) Error() string {
	return fmt.Sprintf("label %s is ambiguous on the target axis", e.Label)
}

// TypeError occurs when a declared dense passthrough column is non-numeric
type TypeError struct{ Column string }

// Error returns a textual representation of this TypeError
func (e TypeError) Error() string {
	return fmt.Sprintf("column %s is not of numerical type", e.Column)
}

// ParameterError occurs when mutually exclusive or missing arguments are given
type ParameterError struct{ Msg string }

// Error returns a textual representation of this ParameterError
func (e ParameterError) Error() string {
	return e.Msg
}

// UnsupportedError occurs when an explicitly out-of-scope capability is
// invoked, such as weighted sampling or in-place mutation of existing columns
type UnsupportedError struct{ Feature string }

// Error returns a textual representation of this UnsupportedError
func (e UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported", e.Feature)
}

// CategoryCollisionError occurs when one-hot encoding would produce
// conflicting output columns, or a category list fails to cover the data
type CategoryCollisionError struct{ Msg string }

// Error returns a textual representation of this CategoryCollisionError
func (e CategoryCollisionError) Error() string {
	return e.Msg
}

// CategoryOrderError occurs when an explicit category order conflicts with a
// column's own declared category order
type CategoryOrderError struct{ Column string }

// Error returns a textual representation of this CategoryOrderError
func (e CategoryOrderError) Error() string {
	return fmt.Sprintf("explicit categories for column %s conflict with its declared category order", e.Column)
}
