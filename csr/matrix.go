package csr

import (
	"sort"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"gonum.org/v1/gonum/mat"
)

// matrixImpl is the compressed sparse row implementation of sparsity.Matrix.
// Column indices are kept in ascending order within each row.
type matrixImpl struct {
	rows   int
	cols   int
	values []float64
	colInd []int
	rowPtr []int
}

// Create builds a Matrix from raw CSR arrays, validating their consistency
func Create(rows int, cols int, values []float64, colInd []int, rowPtr []int) (sparsity.Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, errors.ParameterError{Msg: "matrix dimensions must be non-negative"}
	}
	if len(rowPtr) != rows+1 {
		return nil, errors.ParameterError{Msg: "row pointer array length must be rows+1"}
	}
	if len(values) != len(colInd) {
		return nil, errors.ParameterError{Msg: "value and column-index arrays must have equal length"}
	}
	if rowPtr[0] != 0 || rowPtr[rows] != len(values) {
		return nil, errors.ParameterError{Msg: "row pointer array does not span the value array"}
	}
	for i := 0; i < rows; i++ {
		if rowPtr[i] > rowPtr[i+1] {
			return nil, errors.ParameterError{Msg: "row pointer array must be non-decreasing"}
		}
	}
	for _, j := range colInd {
		if j < 0 || j >= cols {
			return nil, errors.BoundsError{Position: j, Length: cols}
		}
	}
	m := &matrixImpl{rows: rows, cols: cols, values: values, colInd: colInd, rowPtr: rowPtr}
	m.sortRows()
	return m, nil
}

// Zeros builds an all-zero Matrix of the given shape
func Zeros(rows int, cols int) sparsity.Matrix {
	return &matrixImpl{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
}

// Identity builds the n-by-n identity Matrix
func Identity(n int) sparsity.Matrix {
	values := make([]float64, n)
	colInd := make([]int, n)
	rowPtr := make([]int, n+1)
	for i := 0; i < n; i++ {
		values[i] = 1
		colInd[i] = i
		rowPtr[i+1] = i + 1
	}
	return &matrixImpl{rows: n, cols: n, values: values, colInd: colInd, rowPtr: rowPtr}
}

// FromRows builds a Matrix from dense row slices, which must all have equal
// length. Zero values are not stored.
func FromRows(rows [][]float64) (sparsity.Matrix, error) {
	nCols := 0
	if len(rows) > 0 {
		nCols = len(rows[0])
	}
	m := &matrixImpl{rows: len(rows), cols: nCols, rowPtr: make([]int, len(rows)+1)}
	for i, row := range rows {
		if len(row) != nCols {
			return nil, errors.ShapeError{
				Op:    "construct",
				Left:  sparsity.Shape{Rows: 1, Cols: nCols},
				Right: sparsity.Shape{Rows: 1, Cols: len(row)},
			}
		}
		for j, v := range row {
			if v != 0 {
				m.values = append(m.values, v)
				m.colInd = append(m.colInd, j)
			}
		}
		m.rowPtr[i+1] = len(m.values)
	}
	return m, nil
}

// FromDense builds a Matrix from a dense gonum matrix
func FromDense(d mat.Matrix) sparsity.Matrix {
	if d == nil {
		return Zeros(0, 0)
	}
	r, c := d.Dims()
	m := &matrixImpl{rows: r, cols: c, rowPtr: make([]int, r+1)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := d.At(i, j); v != 0 {
				m.values = append(m.values, v)
				m.colInd = append(m.colInd, j)
			}
		}
		m.rowPtr[i+1] = len(m.values)
	}
	return m
}

// FromColumn builds an n-by-1 Matrix from a dense column of values
func FromColumn(values []float64) sparsity.Matrix {
	m := &matrixImpl{rows: len(values), cols: 1, rowPtr: make([]int, len(values)+1)}
	for i, v := range values {
		if v != 0 {
			m.values = append(m.values, v)
			m.colInd = append(m.colInd, 0)
		}
		m.rowPtr[i+1] = len(m.values)
	}
	return m
}

// sortRows restores the ascending column order invariant within each row
func (m *matrixImpl) sortRows() {
	for i := 0; i < m.rows; i++ {
		start, end := m.rowPtr[i], m.rowPtr[i+1]
		row := rowView{cols: m.colInd[start:end], vals: m.values[start:end]}
		if !sort.IsSorted(row) {
			sort.Sort(row)
		}
	}
}

type rowView struct {
	cols []int
	vals []float64
}

func (r rowView) Len() int           { return len(r.cols) }
func (r rowView) Less(i, j int) bool { return r.cols[i] < r.cols[j] }
func (r rowView) Swap(i, j int) {
	r.cols[i], r.cols[j] = r.cols[j], r.cols[i]
	r.vals[i], r.vals[j] = r.vals[j], r.vals[i]
}

// Shape returns the (rows, cols) dimensions of this Matrix
func (m *matrixImpl) Shape() sparsity.Shape {
	return sparsity.Shape{Rows: m.rows, Cols: m.cols}
}

// NonzeroCount returns the number of stored entries
func (m *matrixImpl) NonzeroCount() int {
	return len(m.values)
}

// At returns the value at a position, zero for unstored cells
func (m *matrixImpl) At(i int, j int) float64 {
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		if m.colInd[k] == j {
			return m.values[k]
		}
		if m.colInd[k] > j {
			break
		}
	}
	return 0
}

// RowsAt copies the given rows, in the given order, into a new Matrix.
// Positions must be in range; the Frame layer validates label resolution and
// bounds before delegating here.
func (m *matrixImpl) RowsAt(positions []int) sparsity.Matrix {
	out := &matrixImpl{rows: len(positions), cols: m.cols, rowPtr: make([]int, len(positions)+1)}
	for i, pos := range positions {
		start, end := m.rowPtr[pos], m.rowPtr[pos+1]
		out.values = append(out.values, m.values[start:end]...)
		out.colInd = append(out.colInd, m.colInd[start:end]...)
		out.rowPtr[i+1] = len(out.values)
	}
	return out
}

// ColumnsAt copies the given columns, in the given order, into a new Matrix.
// A source column may appear more than once.
func (m *matrixImpl) ColumnsAt(positions []int) sparsity.Matrix {
	targets := make(map[int][]int, len(positions))
	for outPos, srcCol := range positions {
		targets[srcCol] = append(targets[srcCol], outPos)
	}
	out := &matrixImpl{rows: m.rows, cols: len(positions), rowPtr: make([]int, m.rows+1)}
	for i := 0; i < m.rows; i++ {
		start := len(out.values)
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			for _, outPos := range targets[m.colInd[k]] {
				out.values = append(out.values, m.values[k])
				out.colInd = append(out.colInd, outPos)
			}
		}
		row := rowView{cols: out.colInd[start:], vals: out.values[start:]}
		sort.Sort(row)
		out.rowPtr[i+1] = len(out.values)
	}
	return out
}

// Add returns the elementwise sum with a shape-matched Matrix
func (m *matrixImpl) Add(other sparsity.Matrix) (sparsity.Matrix, error) {
	if !m.Shape().Equal(other.Shape()) {
		return nil, errors.ShapeError{Op: "add", Left: m.Shape(), Right: other.Shape()}
	}
	return m.merge(other, func(a, b float64) float64 { return a + b }, true), nil
}

// MulElem returns the elementwise product with a shape-matched Matrix
func (m *matrixImpl) MulElem(other sparsity.Matrix) (sparsity.Matrix, error) {
	if !m.Shape().Equal(other.Shape()) {
		return nil, errors.ShapeError{Op: "multiply", Left: m.Shape(), Right: other.Shape()}
	}
	return m.merge(other, func(a, b float64) float64 { return a * b }, false), nil
}

// merge combines two shape-matched matrices row by row. When keepSingles is
// true, entries present on only one side survive with the other side treated
// as zero (addition); otherwise they vanish (multiplication).
func (m *matrixImpl) merge(other sparsity.Matrix, op func(a, b float64) float64, keepSingles bool) sparsity.Matrix {
	oVals, oCols, oPtr := other.Values(), other.ColIndices(), other.RowPointers()
	out := &matrixImpl{rows: m.rows, cols: m.cols, rowPtr: make([]int, m.rows+1)}
	push := func(col int, v float64) {
		if v != 0 {
			out.values = append(out.values, v)
			out.colInd = append(out.colInd, col)
		}
	}
	for i := 0; i < m.rows; i++ {
		a, aEnd := m.rowPtr[i], m.rowPtr[i+1]
		b, bEnd := oPtr[i], oPtr[i+1]
		for a < aEnd && b < bEnd {
			switch {
			case m.colInd[a] == oCols[b]:
				push(m.colInd[a], op(m.values[a], oVals[b]))
				a++
				b++
			case m.colInd[a] < oCols[b]:
				if keepSingles {
					push(m.colInd[a], op(m.values[a], 0))
				}
				a++
			default:
				if keepSingles {
					push(oCols[b], op(0, oVals[b]))
				}
				b++
			}
		}
		if keepSingles {
			for ; a < aEnd; a++ {
				push(m.colInd[a], op(m.values[a], 0))
			}
			for ; b < bEnd; b++ {
				push(oCols[b], op(0, oVals[b]))
			}
		}
		out.rowPtr[i+1] = len(out.values)
	}
	return out
}

// Scale returns this Matrix with every stored value multiplied by a constant
func (m *matrixImpl) Scale(c float64) sparsity.Matrix {
	out := &matrixImpl{
		rows:   m.rows,
		cols:   m.cols,
		values: make([]float64, len(m.values)),
		colInd: append([]int(nil), m.colInd...),
		rowPtr: append([]int(nil), m.rowPtr...),
	}
	for i, v := range m.values {
		out.values[i] = v * c
	}
	return out
}

// SumRows returns the sum of each row
func (m *matrixImpl) SumRows() []float64 {
	sums := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sums[i] += m.values[k]
		}
	}
	return sums
}

// SumColumns returns the sum of each column
func (m *matrixImpl) SumColumns() []float64 {
	sums := make([]float64, m.cols)
	for k, v := range m.values {
		sums[m.colInd[k]] += v
	}
	return sums
}

// ToDense materializes this Matrix as a dense gonum matrix. An empty Matrix
// yields an empty dense matrix.
func (m *matrixImpl) ToDense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			d.Set(i, m.colInd[k], m.values[k])
		}
	}
	return d
}

// Values returns the CSR value array. Callers must not mutate it.
func (m *matrixImpl) Values() []float64 { return m.values }

// ColIndices returns the CSR column-index array. Callers must not mutate it.
func (m *matrixImpl) ColIndices() []int { return m.colInd }

// RowPointers returns the CSR row-pointer array. Callers must not mutate it.
func (m *matrixImpl) RowPointers() []int { return m.rowPtr }
