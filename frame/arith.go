package frame

import (
	"fmt"

	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"gonum.org/v1/gonum/mat"
)

// Add aligns this Frame with another on both axes independently, expands each
// side's storage to the union shape, and sums elementwise. Cells absent from
// one side default to conf.Fill; a cell absent from both sides receives the
// fill once. NoFill disables defaulting and fails when either side has labels
// the other lacks. Duplicate labels on any axis cannot be aligned. The
// result's index and columns are the respective sorted unions, so when the
// union equals a side's original axis no data is lost.
func (f *frameImpl) Add(other sparsity.Frame, conf *sparsity.AddConf) (sparsity.Frame, error) {
	if conf == nil {
		conf = &sparsity.AddConf{}
	}
	for _, axis := range []sparsity.Index{f.idx, f.cols, other.Index(), other.Columns()} {
		if axis.HasDuplicates() {
			return nil, errors.AmbiguousWriteError{Label: axis.At(firstDuplicate(axis))[0]}
		}
	}
	rowAlign, err := f.idx.Align(other.Index())
	if err != nil {
		return nil, err
	}
	colAlign, err := f.cols.Align(other.Columns())
	if err != nil {
		return nil, err
	}
	if conf.NoFill {
		if hasAbsent(rowAlign.Left) || hasAbsent(rowAlign.Right) ||
			hasAbsent(colAlign.Left) || hasAbsent(colAlign.Right) {
			return nil, errors.ParameterError{
				Msg: "cannot add frames with non-identical labels when filling is disabled",
			}
		}
	}
	left := csr.Expand(f.data, rowAlign.Left, colAlign.Left, conf.Fill)
	right := csr.Expand(other.Data(), rowAlign.Right, colAlign.Right, conf.Fill)
	sum, err := left.Add(right)
	if err != nil {
		return nil, err
	}
	if conf.Fill != 0 {
		sum, err = correctDoubleFill(sum, rowAlign, colAlign, conf.Fill)
		if err != nil {
			return nil, err
		}
	}
	return Create(sum, rowAlign.Union, colAlign.Union)
}

// correctDoubleFill subtracts the surplus fill in cells neither side covers,
// which both expansions materialized
func correctDoubleFill(sum sparsity.Matrix, rowAlign *sparsity.Alignment, colAlign *sparsity.Alignment, fill float64) (sparsity.Matrix, error) {
	rows := make([][]float64, len(rowAlign.Left))
	found := false
	for i := range rows {
		row := make([]float64, len(colAlign.Left))
		for j := range row {
			leftAbsent := rowAlign.Left[i] == sparsity.Absent || colAlign.Left[j] == sparsity.Absent
			rightAbsent := rowAlign.Right[i] == sparsity.Absent || colAlign.Right[j] == sparsity.Absent
			if leftAbsent && rightAbsent {
				row[j] = -fill
				found = true
			}
		}
		rows[i] = row
	}
	if !found {
		return sum, nil
	}
	correction, err := csr.FromRows(rows)
	if err != nil {
		return nil, err
	}
	return sum.Add(correction)
}

func hasAbsent(mapping []int) bool {
	for _, pos := range mapping {
		if pos == sparsity.Absent {
			return true
		}
	}
	return false
}

// Sum reduces along an axis: column sums for AxisIndex, row sums for
// AxisColumns
func (f *frameImpl) Sum(axis sparsity.Axis) []float64 {
	if axis == sparsity.AxisIndex {
		return f.data.SumColumns()
	}
	return f.data.SumRows()
}

// Multiply broadcasts an alignable operand elementwise across this Frame.
// The operand may be a raw slice, an n-by-1 or 1-by-n matrix, a full
// shape-matched matrix, or another Frame; it is normalized once at this
// boundary into canonical matrix form before the single arithmetic path runs.
// Axis 0 scales rows by a length-rows vector, axis 1 scales columns by a
// length-cols vector.
func (f *frameImpl) Multiply(other interface{}, axis sparsity.Axis) (sparsity.Frame, error) {
	if axis != sparsity.AxisIndex && axis != sparsity.AxisColumns {
		return nil, errors.ParameterError{Msg: fmt.Sprintf("axis must be 0 or 1, got %d", axis)}
	}
	operand, err := asOperand(other, f.Shape(), axis)
	if err != nil {
		return nil, err
	}
	product, err := f.data.MulElem(operand)
	if err != nil {
		return nil, err
	}
	return Create(product, f.idx, f.cols)
}

// asOperand converts an accepted multiply operand into a matrix of exactly
// the target shape, broadcasting vectors along the requested axis
func asOperand(other interface{}, shape sparsity.Shape, axis sparsity.Axis) (sparsity.Matrix, error) {
	switch v := other.(type) {
	case []float64:
		return broadcastVector(v, shape, axis)
	case sparsity.Frame:
		return asOperand(v.Data(), shape, axis)
	case sparsity.Matrix:
		return broadcastMatrix(v, shape, axis)
	case *mat.Dense:
		return broadcastMatrix(csr.FromDense(v), shape, axis)
	case mat.Matrix:
		return broadcastMatrix(csr.FromDense(v), shape, axis)
	default:
		return nil, errors.ParameterError{Msg: fmt.Sprintf("cannot multiply by %T", other)}
	}
}

// broadcastMatrix accepts either a full shape-matched matrix or a vector
// shaped matrix (n-by-1 or 1-by-n) and broadcasts the latter
func broadcastMatrix(m sparsity.Matrix, shape sparsity.Shape, axis sparsity.Axis) (sparsity.Matrix, error) {
	mShape := m.Shape()
	if mShape.Equal(shape) {
		return m, nil
	}
	if mShape.Cols == 1 {
		vec := make([]float64, mShape.Rows)
		for i := range vec {
			vec[i] = m.At(i, 0)
		}
		return broadcastVector(vec, shape, axis)
	}
	if mShape.Rows == 1 {
		vec := make([]float64, mShape.Cols)
		for j := range vec {
			vec[j] = m.At(0, j)
		}
		return broadcastVector(vec, shape, axis)
	}
	return nil, errors.ShapeError{Op: "multiply", Left: shape, Right: mShape}
}

// broadcastVector tiles a vector into a full matrix along the requested axis
func broadcastVector(vec []float64, shape sparsity.Shape, axis sparsity.Axis) (sparsity.Matrix, error) {
	rows := make([][]float64, shape.Rows)
	if axis == sparsity.AxisIndex {
		if len(vec) != shape.Rows {
			return nil, errors.ShapeError{
				Op:    "multiply",
				Left:  shape,
				Right: sparsity.Shape{Rows: len(vec), Cols: 1},
			}
		}
	} else if len(vec) != shape.Cols {
		return nil, errors.ShapeError{
			Op:    "multiply",
			Left:  shape,
			Right: sparsity.Shape{Rows: 1, Cols: len(vec)},
		}
	}
	if shape.Rows == 0 {
		return csr.Zeros(shape.Rows, shape.Cols), nil
	}
	if axis == sparsity.AxisIndex {
		// one multiplier per row
		for i := range rows {
			row := make([]float64, shape.Cols)
			for j := range row {
				row[j] = vec[i]
			}
			rows[i] = row
		}
	} else {
		// one multiplier per column
		for i := range rows {
			rows[i] = append([]float64(nil), vec...)
		}
	}
	return csr.FromRows(rows)
}
