package coordinator

import (
	"bytes"
	"context"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/frame"
	"github.com/go-sparsity/sparsity/index"
	"github.com/go-sparsity/sparsity/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testColumns(t *testing.T) sparsity.Index {
	cols, err := index.Create(sparsity.Strings([]string{"x", "y"}), "")
	require.Nil(t, err)
	return cols
}

func partitionFixture(t *testing.T) *Partitioned {
	cols := testColumns(t)
	var parts []sparsity.Frame
	for p := 0; p < 3; p++ {
		idx, err := index.Create(sparsity.Ints([]int64{int64(2 * p), int64(2*p + 1)}), "")
		require.Nil(t, err)
		f, err := frame.FromRows([][]float64{
			{float64(p), 1},
			{float64(p), 2},
		}, idx, cols)
		require.Nil(t, err)
		parts = append(parts, f)
	}
	out, err := Create(parts, nil)
	require.Nil(t, err)
	return out
}

func TestCreateValidatesPartitions(t *testing.T) {
	_, err := Create(nil, nil)
	require.IsType(t, errors.ParameterError{}, err)

	cols := testColumns(t)
	a, err := frame.FromRows([][]float64{{1, 2}}, nil, cols)
	require.Nil(t, err)
	other, err := index.Create(sparsity.Strings([]string{"x", "z"}), "")
	require.Nil(t, err)
	b, err := frame.FromRows([][]float64{{1, 2}}, nil, other)
	require.Nil(t, err)
	_, err = Create([]sparsity.Frame{a, b}, nil)
	require.IsType(t, errors.ShapeError{}, err)

	_, err = Create([]sparsity.Frame{a}, sparsity.Ints([]int64{0}))
	require.IsType(t, errors.ParameterError{}, err)
}

func TestPartitionedAccessors(t *testing.T) {
	p := partitionFixture(t)
	require.Equal(t, p.NumPartitions(), 3)
	require.NotEmpty(t, p.ID())
	require.Nil(t, p.Divisions())

	part, err := p.Partition(1)
	require.Nil(t, err)
	require.Equal(t, part.Data().At(0, 0), 1.0)
	_, err = p.Partition(3)
	require.IsType(t, errors.BoundsError{}, err)
}

func TestMapPartitionsLogsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	logging.SetMinLevel(logging.InfoLevel)
	defer func() {
		logging.SetOutput(os.Stderr)
		logging.SetMinLevel(logging.WarnLevel)
	}()

	p := partitionFixture(t)
	_, err := p.MapPartitions(context.Background(), func(f sparsity.Frame) (sparsity.Frame, error) {
		return f, nil
	})
	require.Nil(t, err)
	require.Contains(t, buf.String(), "INFO mapping 3 partitions")
}

func TestMetaNeverFails(t *testing.T) {
	p := partitionFixture(t)
	meta := p.Meta()
	require.True(t, meta.Empty())
	require.True(t, meta.Columns().Equal(testColumns(t)))

	sum, err := meta.GroupbySum(nil)
	require.Nil(t, err)
	require.True(t, sum.Empty())

	scaled, err := meta.Multiply([]float64{2, 3}, sparsity.AxisColumns)
	require.Nil(t, err)
	require.True(t, scaled.Empty())
}

func TestMapPartitionsRunsEveryPartition(t *testing.T) {
	p := partitionFixture(t)
	var calls int64
	mapped, err := p.MapPartitions(context.Background(), func(f sparsity.Frame) (sparsity.Frame, error) {
		if !f.Empty() {
			atomic.AddInt64(&calls, 1)
		}
		return f.Multiply([]float64{2, 2}, sparsity.AxisColumns)
	})
	require.Nil(t, err)
	require.Equal(t, atomic.LoadInt64(&calls), int64(3))
	require.Equal(t, mapped.NumPartitions(), 3)
	part, err := mapped.Partition(0)
	require.Nil(t, err)
	require.Equal(t, part.Data().At(0, 1), 2.0)
	// identity survives remapping but differs per handle
	require.NotEqual(t, mapped.ID(), p.ID())
}

func TestMapPartitionsMetaFailureAbortsEarly(t *testing.T) {
	p := partitionFixture(t)
	var calls int64
	_, err := p.MapPartitions(context.Background(), func(f sparsity.Frame) (sparsity.Frame, error) {
		if f.Empty() {
			return nil, errors.ParameterError{Msg: "planning failure"}
		}
		atomic.AddInt64(&calls, 1)
		return f, nil
	})
	require.NotNil(t, err)
	require.Equal(t, atomic.LoadInt64(&calls), int64(0))
}

func TestMapPartitionsCollectsFailures(t *testing.T) {
	p := partitionFixture(t)
	_, err := p.MapPartitions(context.Background(), func(f sparsity.Frame) (sparsity.Frame, error) {
		if f.Empty() {
			return f, nil
		}
		if f.Data().At(0, 0) >= 1 {
			return nil, errors.ParameterError{Msg: "partition failure"}
		}
		return f, nil
	})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "partition failure")
}

func TestReducePreservesPartitionOrder(t *testing.T) {
	p := partitionFixture(t)
	combined, err := p.Reduce()
	require.Nil(t, err)
	require.Equal(t, combined.Shape(), sparsity.Shape{Rows: 6, Cols: 2})
	require.Equal(t, combined.Data().At(0, 0), 0.0)
	require.Equal(t, combined.Data().At(5, 0), 2.0)
	require.Equal(t, combined.Index().Labels(0)[5].IntValue(), int64(5))
}

func TestGroupbySumAcrossPartitions(t *testing.T) {
	cols := testColumns(t)
	var parts []sparsity.Frame
	for p := 0; p < 2; p++ {
		idx, err := index.Create(sparsity.Strings([]string{"a", "b"}), "")
		require.Nil(t, err)
		f, err := frame.FromRows([][]float64{{1, 0}, {0, 1}}, idx, cols)
		require.Nil(t, err)
		parts = append(parts, f)
	}
	p, err := Create(parts, nil)
	require.Nil(t, err)
	out, err := p.GroupbySum(context.Background())
	require.Nil(t, err)
	require.Equal(t, out.Shape(), sparsity.Shape{Rows: 2, Cols: 2})
	require.Equal(t, out.Data().At(0, 0), 2.0)
	require.Equal(t, out.Data().At(1, 1), 2.0)
}
