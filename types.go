package sparsity

import "fmt"

// A Shape is the (rows, columns) dimension pair of a Matrix or Frame
type Shape struct {
	Rows int
	Cols int
}

// String returns a textual representation of this Shape
func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

// Equal returns true iff this and another Shape are identical
func (s Shape) Equal(other Shape) bool {
	return s.Rows == other.Rows && s.Cols == other.Cols
}

// An Axis selects between the row index (AxisIndex) and the column index
// (AxisColumns) of a Frame
type Axis int

const (
	// AxisIndex addresses the row axis of a Frame
	AxisIndex Axis = 0
	// AxisColumns addresses the column axis of a Frame
	AxisColumns Axis = 1
)
