package frame

import (
	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

// Select resolves label-based selectors on both axes and returns a new Frame
// with storage sliced accordingly. Selecting a single label collapses to a
// 1-row (or 1-column) Frame, never a bare scalar, which keeps results
// composable. Duplicate labels select every occurrence in original order.
func (f *frameImpl) Select(rows sparsity.Selector, cols sparsity.Selector) (sparsity.Frame, error) {
	rowPositions, err := resolveSelector(rows, f.idx, true)
	if err != nil {
		return nil, err
	}
	colPositions, err := resolveSelector(cols, f.cols, false)
	if err != nil {
		return nil, err
	}
	return f.slice(rowPositions, colPositions)
}

// AtPosition is pure integer-offset access with no label resolution
func (f *frameImpl) AtPosition(rowPositions []int, colPositions []int) (sparsity.Frame, error) {
	for _, pos := range rowPositions {
		if pos < 0 || pos >= f.idx.Len() {
			return nil, errors.BoundsError{Position: pos, Length: f.idx.Len()}
		}
	}
	for _, pos := range colPositions {
		if pos < 0 || pos >= f.cols.Len() {
			return nil, errors.BoundsError{Position: pos, Length: f.cols.Len()}
		}
	}
	// nil positions keep the axis unchanged
	return f.slice(rowPositions, colPositions)
}

// slice builds the Frame at the given resolved positions
func (f *frameImpl) slice(rowPositions []int, colPositions []int) (sparsity.Frame, error) {
	data := f.data
	idx := f.idx
	cols := f.cols
	if rowPositions != nil {
		data = data.RowsAt(rowPositions)
		idx = idx.Subset(rowPositions)
	}
	if colPositions != nil {
		data = data.ColumnsAt(colPositions)
		cols = cols.Subset(colPositions)
	}
	return Create(data, idx, cols)
}

// resolveSelector turns a Selector into axis positions. A nil result means
// the axis is kept unchanged. Range selection is only meaningful on the
// sorted row axis.
func resolveSelector(sel sparsity.Selector, idx sparsity.Index, isRowAxis bool) ([]int, error) {
	switch sel.Kind() {
	case sparsity.SelectAll:
		return nil, nil
	case sparsity.SelectLabel:
		return idx.PositionOf(sel.Label())
	case sparsity.SelectLabels:
		return idx.PositionsOf(sel.Labels())
	case sparsity.SelectMask:
		mask := sel.MaskValues()
		if len(mask) != idx.Len() {
			return nil, errors.ShapeError{
				Op:    "boolean mask",
				Left:  sparsity.Shape{Rows: idx.Len(), Cols: 1},
				Right: sparsity.Shape{Rows: len(mask), Cols: 1},
			}
		}
		positions := make([]int, 0, len(mask))
		for pos, keep := range mask {
			if keep {
				positions = append(positions, pos)
			}
		}
		return positions, nil
	case sparsity.SelectRange:
		if !isRowAxis {
			return nil, errors.ParameterError{Msg: "range selection applies to the row axis only"}
		}
		start, end := sel.Range()
		return idx.Slice(start, end)
	default:
		return nil, errors.ParameterError{Msg: "unknown selector kind"}
	}
}
