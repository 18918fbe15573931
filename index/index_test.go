package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

func TestCreateResolvesKind(t *testing.T) {
	idx, err := Create(sparsity.Ints([]int64{3, 1, 2}), "id")
	require.Nil(t, err)
	require.Equal(t, idx.Kind(), sparsity.KindInt)
	require.Equal(t, idx.Len(), 3)
	require.False(t, idx.IsSorted())
	require.Equal(t, idx.LevelNames(), []string{"id"})
}

func TestCreatePromotesMixedNumericLabels(t *testing.T) {
	idx, err := Create([]sparsity.Label{sparsity.Int(1), sparsity.Float(2.5)}, "")
	require.Nil(t, err)
	require.Equal(t, idx.Kind(), sparsity.KindFloat)
	require.Equal(t, idx.Labels(0)[0].FloatValue(), 1.0)
}

func TestCreateRejectsMixedKinds(t *testing.T) {
	_, err := Create([]sparsity.Label{sparsity.Int(1), sparsity.String("a")}, "")
	require.IsType(t, errors.ParameterError{}, err)
}

func TestRange(t *testing.T) {
	idx := Range(4)
	require.Equal(t, idx.Len(), 4)
	require.True(t, idx.IsSorted())
	require.False(t, idx.HasDuplicates())
	require.Equal(t, idx.Labels(0)[3].IntValue(), int64(3))
}

func TestPositionOfDuplicates(t *testing.T) {
	idx, err := Create(sparsity.Strings([]string{"A", "A", "B", "A", "B"}), "")
	require.Nil(t, err)
	require.True(t, idx.HasDuplicates())
	positions, err := idx.PositionOf(sparsity.String("A"))
	require.Nil(t, err)
	require.Equal(t, positions, []int{0, 1, 3})
	positions, err = idx.PositionOf(sparsity.String("B"))
	require.Nil(t, err)
	require.Equal(t, positions, []int{2, 4})
	_, err = idx.PositionOf(sparsity.String("C"))
	require.IsType(t, errors.NotFoundError{}, err)
}

func TestPositionsOfConcatenates(t *testing.T) {
	idx, err := Create(sparsity.Strings([]string{"A", "B", "A"}), "")
	require.Nil(t, err)
	positions, err := idx.PositionsOf(sparsity.Strings([]string{"B", "A"}))
	require.Nil(t, err)
	require.Equal(t, positions, []int{1, 0, 2})
	_, err = idx.PositionsOf(sparsity.Strings([]string{"B", "Z"}))
	require.IsType(t, errors.NotFoundError{}, err)
}

func TestSliceInclusive(t *testing.T) {
	idx, err := Create(sparsity.Ints([]int64{1, 3, 5, 7, 9}), "")
	require.Nil(t, err)
	start := sparsity.Int(3)
	end := sparsity.Int(7)
	positions, err := idx.Slice(&start, &end)
	require.Nil(t, err)
	require.Equal(t, positions, []int{1, 2, 3})

	// open endpoints
	positions, err = idx.Slice(nil, &end)
	require.Nil(t, err)
	require.Equal(t, positions, []int{0, 1, 2, 3})
	positions, err = idx.Slice(&start, nil)
	require.Nil(t, err)
	require.Equal(t, positions, []int{1, 2, 3, 4})
}

func TestSliceIncludesDuplicateEndpoints(t *testing.T) {
	idx, err := Create(sparsity.Ints([]int64{1, 2, 2, 3, 3, 4}), "")
	require.Nil(t, err)
	start := sparsity.Int(2)
	end := sparsity.Int(3)
	positions, err := idx.Slice(&start, &end)
	require.Nil(t, err)
	require.Equal(t, positions, []int{1, 2, 3, 4})
}

func TestSliceInvertedRangeIsEmpty(t *testing.T) {
	idx, err := Create(sparsity.Ints([]int64{10, 20, 30, 40}), "")
	require.Nil(t, err)
	start := sparsity.Int(30)
	end := sparsity.Int(10)
	positions, err := idx.Slice(&start, &end)
	require.Nil(t, err)
	require.Equal(t, positions, []int{})
}

func TestSliceCoercesDateStrings(t *testing.T) {
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = time.Date(2016, 10, 1+i, 0, 0, 0, 0, time.UTC)
	}
	idx, err := Create(sparsity.Times(days), "")
	require.Nil(t, err)
	start := sparsity.String("2016-10-02")
	end := sparsity.String("2016-10-04")
	positions, err := idx.Slice(&start, &end)
	require.Nil(t, err)
	require.Equal(t, positions, []int{1, 2, 3})
}

func TestSliceRequiresSorted(t *testing.T) {
	idx, err := Create(sparsity.Ints([]int64{3, 1, 2}), "")
	require.Nil(t, err)
	start := sparsity.Int(1)
	_, err = idx.Slice(&start, nil)
	require.IsType(t, errors.ParameterError{}, err)
}

func TestUnionPreservesDuplicates(t *testing.T) {
	a, err := Create(sparsity.Strings([]string{"x", "y"}), "")
	require.Nil(t, err)
	b, err := Create(sparsity.Strings([]string{"y", "z"}), "")
	require.Nil(t, err)
	u, err := a.Union(b)
	require.Nil(t, err)
	require.Equal(t, u.Len(), 4)
	require.True(t, u.HasDuplicates())
}

func TestAlignOverlap(t *testing.T) {
	a, err := Create(sparsity.Ints([]int64{1, 2, 3}), "")
	require.Nil(t, err)
	b, err := Create(sparsity.Ints([]int64{2, 3, 4}), "")
	require.Nil(t, err)
	al, err := a.Align(b)
	require.Nil(t, err)
	require.Equal(t, al.Union.Len(), 4)
	require.True(t, al.Union.IsSorted())
	require.Equal(t, al.Left, []int{0, 1, 2, sparsity.Absent})
	require.Equal(t, al.Right, []int{sparsity.Absent, 0, 1, 2})
}

func TestAlignDisjoint(t *testing.T) {
	a, err := Create(sparsity.Strings([]string{"a"}), "")
	require.Nil(t, err)
	b, err := Create(sparsity.Strings([]string{"b"}), "")
	require.Nil(t, err)
	al, err := a.Align(b)
	require.Nil(t, err)
	require.Equal(t, al.Union.Len(), 2)
	require.Equal(t, al.Left, []int{0, sparsity.Absent})
	require.Equal(t, al.Right, []int{sparsity.Absent, 0})
}

func TestAlignEmptyOtherKeepsOrder(t *testing.T) {
	a, err := Create(sparsity.Ints([]int64{5, 3, 4}), "")
	require.Nil(t, err)
	al, err := a.Align(Empty(sparsity.KindInt))
	require.Nil(t, err)
	// the non-empty side survives unchanged, unsorted order included
	require.True(t, al.Union.Equal(a))
	require.Equal(t, al.Left, []int{0, 1, 2})
	require.Equal(t, al.Right, []int{sparsity.Absent, sparsity.Absent, sparsity.Absent})
}

func TestSubsetReordersLabels(t *testing.T) {
	idx, err := Create(sparsity.Strings([]string{"a", "b", "c"}), "")
	require.Nil(t, err)
	sub := idx.Subset([]int{2, 0})
	require.Equal(t, sub.Len(), 2)
	require.Equal(t, sub.Labels(0)[0].StringValue(), "c")
	require.Equal(t, sub.Labels(0)[1].StringValue(), "a")
}

func TestFirstOccurrencesAndUnique(t *testing.T) {
	idx, err := Create(sparsity.Strings([]string{"a", "b", "a", "c", "b"}), "")
	require.Nil(t, err)
	require.Equal(t, idx.FirstOccurrences(), []int{0, 1, 3})
	u := idx.Unique()
	require.Equal(t, u.Len(), 3)
	require.False(t, u.HasDuplicates())
}

func TestSortPositionsStable(t *testing.T) {
	idx, err := Create(sparsity.Ints([]int64{2, 1, 2, 1}), "")
	require.Nil(t, err)
	require.Equal(t, idx.SortPositions(), []int{1, 3, 0, 2})
}

func TestMultiLevel(t *testing.T) {
	idx, err := CreateMulti([][]sparsity.Label{
		sparsity.Strings([]string{"a", "a", "b"}),
		sparsity.Ints([]int64{1, 2, 1}),
	}, []string{"outer", "inner"})
	require.Nil(t, err)
	require.Equal(t, idx.NumLevels(), 2)
	require.Equal(t, idx.LevelKind(1), sparsity.KindInt)
	require.False(t, idx.HasDuplicates())
	full := idx.At(1)
	require.Equal(t, full[0].StringValue(), "a")
	require.Equal(t, full[1].IntValue(), int64(2))
	// outermost-level lookup matches both "a" rows
	positions, err := idx.PositionOf(sparsity.String("a"))
	require.Nil(t, err)
	require.Equal(t, positions, []int{0, 1})
}

func TestNaNLabelsDedupeTogether(t *testing.T) {
	idx, err := Create([]sparsity.Label{sparsity.NaN(), sparsity.Float(1), sparsity.NaN()}, "")
	require.Nil(t, err)
	require.Equal(t, idx.FirstOccurrences(), []int{0, 1})
}
