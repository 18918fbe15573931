package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestSampleRequiresExactlyOneOfNAndFrac(t *testing.T) {
	f := testFrame(t, [][]float64{{1}, {2}}, nil, nil)
	_, err := f.Sample(nil)
	require.IsType(t, errors.ParameterError{}, err)
	_, err = f.Sample(&sparsity.SampleConf{})
	require.IsType(t, errors.ParameterError{}, err)
	_, err = f.Sample(&sparsity.SampleConf{N: intPtr(1), Frac: floatPtr(0.5)})
	require.IsType(t, errors.ParameterError{}, err)
}

func TestSampleRejectsUnknownAxis(t *testing.T) {
	f := testFrame(t, [][]float64{{1}}, nil, nil)
	_, err := f.Sample(&sparsity.SampleConf{N: intPtr(1), Axis: sparsity.Axis(2)})
	require.IsType(t, errors.ParameterError{}, err)
}

func TestSampleWeightsUnsupported(t *testing.T) {
	f := testFrame(t, [][]float64{{1}, {2}}, nil, nil)
	_, err := f.Sample(&sparsity.SampleConf{N: intPtr(1), Weights: []float64{0.5, 0.5}})
	require.IsType(t, errors.UnsupportedError{}, err)
}

func TestSampleRows(t *testing.T) {
	f := testFrame(t, [][]float64{{1}, {2}, {3}, {4}}, nil, nil)
	out, err := f.Sample(&sparsity.SampleConf{N: intPtr(2)})
	require.Nil(t, err)
	require.Equal(t, out.Shape(), sparsity.Shape{Rows: 2, Cols: 1})
	require.False(t, out.Index().HasDuplicates())
}

func TestSampleColumns(t *testing.T) {
	f := testFrame(t, [][]float64{{1, 2, 3}}, nil, nil)
	out, err := f.Sample(&sparsity.SampleConf{N: intPtr(2), Axis: sparsity.AxisColumns})
	require.Nil(t, err)
	require.Equal(t, out.Shape(), sparsity.Shape{Rows: 1, Cols: 2})
}

func TestSampleFrac(t *testing.T) {
	f := testFrame(t, [][]float64{{1}, {2}, {3}, {4}}, nil, nil)
	out, err := f.Sample(&sparsity.SampleConf{Frac: floatPtr(0.5)})
	require.Nil(t, err)
	require.Equal(t, out.Shape().Rows, 2)
}

func TestSampleWithReplacementCanExceedAxis(t *testing.T) {
	f := testFrame(t, [][]float64{{1}, {2}}, nil, nil)
	out, err := f.Sample(&sparsity.SampleConf{N: intPtr(5), Replace: true})
	require.Nil(t, err)
	require.Equal(t, out.Shape().Rows, 5)

	_, err = f.Sample(&sparsity.SampleConf{N: intPtr(5)})
	require.IsType(t, errors.ParameterError{}, err)
}

func TestSampleEmptyAxis(t *testing.T) {
	f := testFrame(t, nil, nil, nil)
	out, err := f.Sample(&sparsity.SampleConf{N: intPtr(0)})
	require.Nil(t, err)
	require.True(t, out.Empty())

	_, err = f.Sample(&sparsity.SampleConf{N: intPtr(1), Replace: true})
	require.IsType(t, errors.ParameterError{}, err)
}

func TestSortIndex(t *testing.T) {
	f := testFrame(t, [][]float64{{3}, {1}, {2}}, intIndex(t, 30, 10, 20), nil)
	out := f.SortIndex()
	require.True(t, out.Index().IsSorted())
	require.Equal(t, out.Data().At(0, 0), 1.0)
	require.Equal(t, out.Data().At(2, 0), 3.0)
}

func TestDropDuplicateIdx(t *testing.T) {
	f := testFrame(t, [][]float64{{1}, {2}, {3}}, stringIndex(t, "a", "b", "a"), nil)
	out := f.DropDuplicateIdx()
	require.Equal(t, out.Shape().Rows, 2)
	require.Equal(t, out.Data().At(0, 0), 1.0)
	require.Equal(t, out.Data().At(1, 0), 2.0)
	require.False(t, out.Index().HasDuplicates())
}

func TestDropNaN(t *testing.T) {
	idx, err := index.Create([]sparsity.Label{sparsity.Float(1), sparsity.NaN(), sparsity.Float(2)}, "")
	require.Nil(t, err)
	f := testFrame(t, [][]float64{{1}, {2}, {3}}, idx, nil)
	out := f.DropNaN()
	require.Equal(t, out.Shape().Rows, 2)
	require.Equal(t, out.Data().At(0, 0), 1.0)
	require.Equal(t, out.Data().At(1, 0), 3.0)
}

func TestDropNaNAllRows(t *testing.T) {
	idx, err := index.Create([]sparsity.Label{sparsity.NaN(), sparsity.NaN()}, "")
	require.Nil(t, err)
	f := testFrame(t, [][]float64{{1}, {2}}, idx, nil)
	out := f.DropNaN()
	require.True(t, out.Empty())
	require.Equal(t, out.Shape().Cols, 1)
}
