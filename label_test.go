package sparsity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLabelOrdering(t *testing.T) {
	require.True(t, Int(1).Less(Int(2)))
	require.False(t, Int(2).Less(Int(2)))
	require.True(t, String("a").Less(String("b")))
	require.True(t, Int(1).Less(Float(1.5)))
	require.True(t, Float(0.5).Less(Int(1)))
	// NaN sorts after every number
	require.True(t, Float(1e12).Less(NaN()))
	require.False(t, NaN().Less(Float(1)))
}

func TestLabelEquality(t *testing.T) {
	require.True(t, Int(3).Equal(Int(3)))
	require.False(t, Int(3).Equal(Int(4)))
	require.True(t, Int(3).Equal(Float(3)))
	require.False(t, String("a").Equal(Int(1)))
	// the NaN sentinel never equals itself
	require.False(t, NaN().Equal(NaN()))
}

func TestLabelKeysUnifyNaN(t *testing.T) {
	a := NaN().AppendKey(nil)
	b := NaN().AppendKey(nil)
	require.Equal(t, a, b)
}

func TestCoerceLabel(t *testing.T) {
	l, err := CoerceLabel(Int(2), KindFloat)
	require.Nil(t, err)
	require.Equal(t, l.FloatValue(), 2.0)

	l, err = CoerceLabel(Float(2), KindInt)
	require.Nil(t, err)
	require.Equal(t, l.IntValue(), int64(2))

	_, err = CoerceLabel(Float(2.5), KindInt)
	require.NotNil(t, err)

	l, err = CoerceLabel(String("2017-03-05"), KindTime)
	require.Nil(t, err)
	require.Equal(t, l.TimeValue(), time.Date(2017, 3, 5, 0, 0, 0, 0, time.UTC))

	_, err = CoerceLabel(String("not a date"), KindTime)
	require.NotNil(t, err)
}

func TestShape(t *testing.T) {
	s := Shape{Rows: 2, Cols: 3}
	require.Equal(t, s.String(), "(2, 3)")
	require.True(t, s.Equal(Shape{Rows: 2, Cols: 3}))
	require.False(t, s.Equal(Shape{Rows: 3, Cols: 2}))
}
