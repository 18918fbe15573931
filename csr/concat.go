package csr

import (
	"sort"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

// ConcatVertical stacks matrices on top of each other. All inputs must have
// an identical column count.
func ConcatVertical(ms []sparsity.Matrix) (sparsity.Matrix, error) {
	if len(ms) == 0 {
		return Zeros(0, 0), nil
	}
	cols := ms[0].Shape().Cols
	rows := 0
	nnz := 0
	for _, m := range ms {
		if m.Shape().Cols != cols {
			return nil, errors.ShapeError{Op: "vertical concat", Left: ms[0].Shape(), Right: m.Shape()}
		}
		rows += m.Shape().Rows
		nnz += m.NonzeroCount()
	}
	out := &matrixImpl{
		rows:   rows,
		cols:   cols,
		values: make([]float64, 0, nnz),
		colInd: make([]int, 0, nnz),
		rowPtr: make([]int, 1, rows+1),
	}
	for _, m := range ms {
		values, colInd, rowPtr := m.Values(), m.ColIndices(), m.RowPointers()
		out.values = append(out.values, values...)
		out.colInd = append(out.colInd, colInd...)
		for i := 0; i < m.Shape().Rows; i++ {
			out.rowPtr = append(out.rowPtr, out.rowPtr[len(out.rowPtr)-1]+rowPtr[i+1]-rowPtr[i])
		}
	}
	return out, nil
}

// ConcatHorizontal places matrices side by side. All inputs must have an
// identical row count.
func ConcatHorizontal(ms []sparsity.Matrix) (sparsity.Matrix, error) {
	if len(ms) == 0 {
		return Zeros(0, 0), nil
	}
	rows := ms[0].Shape().Rows
	cols := 0
	for _, m := range ms {
		if m.Shape().Rows != rows {
			return nil, errors.ShapeError{Op: "horizontal concat", Left: ms[0].Shape(), Right: m.Shape()}
		}
		cols += m.Shape().Cols
	}
	out := &matrixImpl{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
	for i := 0; i < rows; i++ {
		offset := 0
		for _, m := range ms {
			values, colInd, rowPtr := m.Values(), m.ColIndices(), m.RowPointers()
			for k := rowPtr[i]; k < rowPtr[i+1]; k++ {
				out.values = append(out.values, values[k])
				out.colInd = append(out.colInd, colInd[k]+offset)
			}
			offset += m.Shape().Cols
		}
		out.rowPtr[i+1] = len(out.values)
	}
	return out, nil
}

// Expand maps a matrix into a larger target shape. rowMap and colMap give,
// for each target row and column, the source position or sparsity.Absent.
// Absent cells take the fill value.
func Expand(m sparsity.Matrix, rowMap []int, colMap []int, fill float64) sparsity.Matrix {
	srcCols := make(map[int][]int, len(colMap))
	for outPos, srcCol := range colMap {
		if srcCol != sparsity.Absent {
			srcCols[srcCol] = append(srcCols[srcCol], outPos)
		}
	}
	values, colInd, rowPtr := m.Values(), m.ColIndices(), m.RowPointers()
	out := &matrixImpl{rows: len(rowMap), cols: len(colMap), rowPtr: make([]int, len(rowMap)+1)}
	for i, srcRow := range rowMap {
		start := len(out.values)
		if srcRow == sparsity.Absent {
			if fill != 0 {
				for j := 0; j < len(colMap); j++ {
					out.values = append(out.values, fill)
					out.colInd = append(out.colInd, j)
				}
			}
			out.rowPtr[i+1] = len(out.values)
			continue
		}
		if fill == 0 {
			for k := rowPtr[srcRow]; k < rowPtr[srcRow+1]; k++ {
				for _, outPos := range srcCols[colInd[k]] {
					out.values = append(out.values, values[k])
					out.colInd = append(out.colInd, outPos)
				}
			}
			sort.Sort(rowView{cols: out.colInd[start:], vals: out.values[start:]})
		} else {
			// a non-zero fill materializes every absent cell of the row
			dense := make([]float64, len(colMap))
			for j, srcCol := range colMap {
				if srcCol == sparsity.Absent {
					dense[j] = fill
				} else {
					dense[j] = m.At(srcRow, srcCol)
				}
			}
			for j, v := range dense {
				if v != 0 {
					out.values = append(out.values, v)
					out.colInd = append(out.colInd, j)
				}
			}
		}
		out.rowPtr[i+1] = len(out.values)
	}
	return out
}
