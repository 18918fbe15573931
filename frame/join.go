package frame

import (
	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
)

// VStack concatenates Frames vertically. Every input must carry an identical
// column index; row indexes are appended positionally, duplicates allowed.
func VStack(frames []sparsity.Frame) (sparsity.Frame, error) {
	if len(frames) == 0 {
		return Create(nil, nil, nil)
	}
	first := frames[0]
	matrices := make([]sparsity.Matrix, len(frames))
	idx := first.Index()
	for i, f := range frames {
		if !f.Columns().Equal(first.Columns()) {
			return nil, errors.ShapeError{Op: "vstack", Left: first.Shape(), Right: f.Shape()}
		}
		matrices[i] = f.Data()
		if i > 0 {
			var err error
			idx, err = idx.Union(f.Index())
			if err != nil {
				return nil, err
			}
		}
	}
	data, err := csr.ConcatVertical(matrices)
	if err != nil {
		return nil, err
	}
	return Create(data, idx, first.Columns())
}

// Join combines two Frames. Axis 0 row-stacks after reconciling columns to
// their sorted union with zero fill. Axis 1 left-joins on the caller's row
// index: rows present only in other are dropped, rows absent from other are
// zero-filled for other's columns, and colliding column labels from other are
// suffixed.
func (f *frameImpl) Join(other sparsity.Frame, axis sparsity.Axis, conf *sparsity.JoinConf) (sparsity.Frame, error) {
	if conf == nil {
		conf = &sparsity.JoinConf{}
	}
	if conf.Suffix == "" {
		conf.Suffix = "_r"
	}
	switch axis {
	case sparsity.AxisIndex:
		return f.joinRows(other)
	case sparsity.AxisColumns:
		return f.joinColumns(other, conf.Suffix)
	default:
		return nil, errors.ParameterError{Msg: "join axis must be 0 or 1"}
	}
}

// joinRows reconciles columns to their sorted union, then delegates to VStack
func (f *frameImpl) joinRows(other sparsity.Frame) (sparsity.Frame, error) {
	if f.cols.Equal(other.Columns()) {
		return VStack([]sparsity.Frame{f, other})
	}
	colAlign, err := f.cols.Align(other.Columns())
	if err != nil {
		return nil, err
	}
	left, err := Create(
		csr.Expand(f.data, identityMap(f.idx.Len()), colAlign.Left, 0),
		f.idx, colAlign.Union)
	if err != nil {
		return nil, err
	}
	right, err := Create(
		csr.Expand(other.Data(), identityMap(other.Index().Len()), colAlign.Right, 0),
		other.Index(), colAlign.Union)
	if err != nil {
		return nil, err
	}
	return VStack([]sparsity.Frame{left, right})
}

// joinColumns left-joins other onto this Frame's row index and horizontally
// concatenates storage
func (f *frameImpl) joinColumns(other sparsity.Frame, suffix string) (sparsity.Frame, error) {
	if other.Index().HasDuplicates() {
		return nil, errors.AmbiguousWriteError{Label: other.Index().At(firstDuplicate(other.Index()))[0]}
	}
	// map each caller row to its counterpart in other, or absent
	mapping := make([]int, f.idx.Len())
	for i := 0; i < f.idx.Len(); i++ {
		positions, err := other.Index().PositionOf(f.idx.At(i)[0])
		if err != nil {
			mapping[i] = sparsity.Absent
			continue
		}
		mapping[i] = positions[0]
	}
	rightData := csr.Expand(other.Data(), mapping, identityMap(other.Columns().Len()), 0)
	data, err := csr.ConcatHorizontal([]sparsity.Matrix{f.data, rightData})
	if err != nil {
		return nil, err
	}
	cols, err := suffixCollisions(f.cols, other.Columns(), suffix)
	if err != nil {
		return nil, err
	}
	return Create(data, f.idx, cols)
}

// suffixCollisions appends other's column labels to left's, suffixing any
// label already present on the left
func suffixCollisions(left sparsity.Index, right sparsity.Index, suffix string) (sparsity.Index, error) {
	labels := left.Labels(0)
	for _, l := range right.Labels(0) {
		if _, err := left.PositionOf(l); err == nil {
			l = sparsity.String(l.String() + suffix)
		}
		labels = append(labels, l)
	}
	out, err := index.Create(labels, "")
	if err != nil {
		// suffixing can mix label kinds; fall back to string labels
		for i, l := range labels {
			labels[i] = sparsity.String(l.String())
		}
		return index.Create(labels, "")
	}
	return out, nil
}
