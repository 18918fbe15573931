package sparsity

import "gonum.org/v1/gonum/mat"

// A Matrix is row-major compressed sparse storage of numeric values. It is
// the storage adapter beneath a Frame: row and column slicing never copy more
// than the requested sub-block, and elementwise arithmetic requires identical
// shapes - aligning mismatched shapes is the Frame's responsibility.
//
// The three CSR arrays are exposed directly because the persisted format
// stores them verbatim.
type Matrix interface {
	Shape() Shape                       // Shape returns the (rows, cols) dimensions of this Matrix
	NonzeroCount() int                  // NonzeroCount returns the number of stored entries
	At(i int, j int) float64            // At returns the value at a position, zero for unstored cells
	RowsAt(positions []int) Matrix      // RowsAt copies the given rows, in the given order, into a new Matrix
	ColumnsAt(positions []int) Matrix   // ColumnsAt copies the given columns, in the given order, into a new Matrix
	Add(other Matrix) (Matrix, error)   // Add returns the elementwise sum with a shape-matched Matrix
	Scale(c float64) Matrix             // Scale returns this Matrix with every stored value multiplied by a constant
	MulElem(other Matrix) (Matrix, error) // MulElem returns the elementwise product with a shape-matched Matrix
	SumRows() []float64                 // SumRows returns the sum of each row, length Shape().Rows
	SumColumns() []float64              // SumColumns returns the sum of each column, length Shape().Cols
	ToDense() *mat.Dense                // ToDense materializes this Matrix as a dense gonum matrix
	Values() []float64                  // Values returns the CSR value array
	ColIndices() []int                  // ColIndices returns the CSR column-index array
	RowPointers() []int                 // RowPointers returns the CSR row-pointer array, length Shape().Rows+1
}
