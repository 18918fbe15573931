package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

func TestAddIdenticalLabels(t *testing.T) {
	idx := intIndex(t, 1, 2)
	cols := stringIndex(t, "x", "y")
	a := testFrame(t, [][]float64{{1, 2}, {3, 4}}, idx, cols)
	b := testFrame(t, [][]float64{{10, 0}, {0, 10}}, idx, cols)
	sum, err := a.Add(b, nil)
	require.Nil(t, err)
	require.Equal(t, sum.Shape(), sparsity.Shape{Rows: 2, Cols: 2})
	require.Equal(t, sum.Data().At(0, 0), 11.0)
	require.Equal(t, sum.Data().At(1, 1), 14.0)
	// inputs untouched
	require.Equal(t, a.Data().At(0, 0), 1.0)
}

func TestAddPartialOverlapAlignsToUnion(t *testing.T) {
	cols := stringIndex(t, "x")
	a := testFrame(t, [][]float64{{1}, {2}}, intIndex(t, 1, 2), cols)
	b := testFrame(t, [][]float64{{10}, {20}}, intIndex(t, 2, 3), cols)
	sum, err := a.Add(b, nil)
	require.Nil(t, err)
	require.Equal(t, sum.Shape().Rows, 3)
	// union index is sorted: 1, 2, 3
	require.Equal(t, sum.Data().At(0, 0), 1.0)
	require.Equal(t, sum.Data().At(1, 0), 12.0)
	require.Equal(t, sum.Data().At(2, 0), 20.0)
}

func TestAddDisjointLabels(t *testing.T) {
	cols := stringIndex(t, "x")
	a := testFrame(t, [][]float64{{1}}, intIndex(t, 1), cols)
	b := testFrame(t, [][]float64{{2}}, intIndex(t, 9), cols)
	sum, err := a.Add(b, nil)
	require.Nil(t, err)
	require.Equal(t, sum.Shape().Rows, 2)
	require.Equal(t, sum.Data().At(0, 0), 1.0)
	require.Equal(t, sum.Data().At(1, 0), 2.0)
}

func TestAddFillsDoublyAbsentCellsOnce(t *testing.T) {
	a := testFrame(t, [][]float64{{1}}, intIndex(t, 1), stringIndex(t, "x"))
	b := testFrame(t, [][]float64{{2}}, intIndex(t, 2), stringIndex(t, "y"))
	sum, err := a.Add(b, &sparsity.AddConf{Fill: 5})
	require.Nil(t, err)
	require.Equal(t, sum.Data().At(0, 0), 6.0)
	require.Equal(t, sum.Data().At(1, 1), 7.0)
	// cells covered by neither side get the fill once, not once per side
	require.Equal(t, sum.Data().At(0, 1), 5.0)
	require.Equal(t, sum.Data().At(1, 0), 5.0)
}

func TestAddRejectsDuplicateAxisLabels(t *testing.T) {
	cols := stringIndex(t, "x")
	a := testFrame(t, [][]float64{{1}, {2}}, stringIndex(t, "r", "r"), cols)
	b := testFrame(t, [][]float64{{3}}, stringIndex(t, "r"), cols)
	_, err := a.Add(b, nil)
	require.IsType(t, errors.AmbiguousWriteError{}, err)
	_, err = b.Add(a, nil)
	require.IsType(t, errors.AmbiguousWriteError{}, err)
}

func TestAddNoFillRequiresIdenticalLabels(t *testing.T) {
	cols := stringIndex(t, "x")
	a := testFrame(t, [][]float64{{1}, {2}}, intIndex(t, 1, 2), cols)
	b := testFrame(t, [][]float64{{10}, {20}}, intIndex(t, 2, 3), cols)
	_, err := a.Add(b, &sparsity.AddConf{NoFill: true})
	require.IsType(t, errors.ParameterError{}, err)

	// identical labels still work with filling disabled
	c := testFrame(t, [][]float64{{5}, {6}}, intIndex(t, 1, 2), cols)
	sum, err := a.Add(c, &sparsity.AddConf{NoFill: true})
	require.Nil(t, err)
	require.Equal(t, sum.Data().At(0, 0), 6.0)
}

func TestAddEmptyFrame(t *testing.T) {
	cols := stringIndex(t, "x")
	a := testFrame(t, [][]float64{{1}, {2}}, intIndex(t, 1, 2), cols)
	sum, err := a.Add(Meta(a), nil)
	require.Nil(t, err)
	require.Equal(t, sum.Shape().Rows, 2)
	require.Equal(t, sum.Data().At(0, 0), 1.0)
	require.Equal(t, sum.Data().At(1, 0), 2.0)
}

func TestSum(t *testing.T) {
	f := testFrame(t, [][]float64{{1, 2}, {3, 4}}, nil, nil)
	require.Equal(t, f.Sum(sparsity.AxisIndex), []float64{4, 6})
	require.Equal(t, f.Sum(sparsity.AxisColumns), []float64{3, 7})
}

func TestMultiplyByColumnVector(t *testing.T) {
	f := testFrame(t, [][]float64{{1, 2}, {3, 4}}, nil, nil)
	out, err := f.Multiply([]float64{2, 10}, sparsity.AxisIndex)
	require.Nil(t, err)
	require.Equal(t, out.Data().At(0, 1), 4.0)
	require.Equal(t, out.Data().At(1, 0), 30.0)
}

func TestMultiplyByRowVector(t *testing.T) {
	f := testFrame(t, [][]float64{{1, 2}, {3, 4}}, nil, nil)
	out, err := f.Multiply([]float64{10, 100}, sparsity.AxisColumns)
	require.Nil(t, err)
	require.Equal(t, out.Data().At(0, 0), 10.0)
	require.Equal(t, out.Data().At(1, 1), 400.0)
}

func TestMultiplyByFrame(t *testing.T) {
	f := testFrame(t, [][]float64{{1, 2}, {3, 4}}, nil, nil)
	g := testFrame(t, [][]float64{{2, 2}, {0, 1}}, nil, nil)
	out, err := f.Multiply(g, sparsity.AxisIndex)
	require.Nil(t, err)
	require.Equal(t, out.Data().At(0, 0), 2.0)
	require.Equal(t, out.Data().At(1, 0), 0.0)
	require.Equal(t, out.Data().At(1, 1), 4.0)
}

func TestMultiplyShapeChecks(t *testing.T) {
	f := testFrame(t, [][]float64{{1, 2}, {3, 4}}, nil, nil)
	_, err := f.Multiply([]float64{1, 2, 3}, sparsity.AxisIndex)
	require.IsType(t, errors.ShapeError{}, err)
	_, err = f.Multiply("nope", sparsity.AxisIndex)
	require.IsType(t, errors.ParameterError{}, err)
	_, err = f.Multiply([]float64{1, 2}, sparsity.Axis(7))
	require.IsType(t, errors.ParameterError{}, err)
}
