package frame

import (
	"fmt"

	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
	"gonum.org/v1/gonum/mat"
)

// asColumn normalizes an alignable column operand - a scalar, a dense slice,
// an n-by-1 Matrix or an n-by-1 Frame - into an n-by-1 sparse column. The
// normalization happens once at the operation boundary so a single code path
// performs the actual storage work.
func asColumn(values interface{}, n int) (sparsity.Matrix, error) {
	switch v := values.(type) {
	case float64:
		return scalarColumn(v, n), nil
	case int:
		return scalarColumn(float64(v), n), nil
	case int64:
		return scalarColumn(float64(v), n), nil
	case []float64:
		if len(v) != n {
			return nil, errors.ShapeError{
				Op:    "column assignment",
				Left:  sparsity.Shape{Rows: n, Cols: 1},
				Right: sparsity.Shape{Rows: len(v), Cols: 1},
			}
		}
		return csr.FromColumn(v), nil
	case sparsity.Matrix:
		if !v.Shape().Equal(sparsity.Shape{Rows: n, Cols: 1}) {
			return nil, errors.ShapeError{Op: "column assignment", Left: sparsity.Shape{Rows: n, Cols: 1}, Right: v.Shape()}
		}
		return v, nil
	case sparsity.Frame:
		return asColumn(v.Data(), n)
	case *mat.Dense:
		return asColumn(sparsity.Matrix(csr.FromDense(v)), n)
	default:
		return nil, errors.ParameterError{Msg: fmt.Sprintf("cannot use %T as a column of values", values)}
	}
}

func scalarColumn(v float64, n int) sparsity.Matrix {
	col := make([]float64, n)
	for i := range col {
		col[i] = v
	}
	return csr.FromColumn(col)
}

// SetColumn appends a new column in place, horizontally extending storage.
// A scalar broadcasts to every row. Assignment to an existing column label is
// an explicit design exclusion: only additive schema growth is allowed.
func (f *frameImpl) SetColumn(label sparsity.Label, values interface{}) error {
	if _, err := f.cols.PositionOf(label); err == nil {
		return errors.UnsupportedError{Feature: fmt.Sprintf("in-place assignment to existing column %s", label)}
	}
	col, err := asColumn(values, f.idx.Len())
	if err != nil {
		return err
	}
	data, err := csr.ConcatHorizontal([]sparsity.Matrix{f.data, col})
	if err != nil {
		return err
	}
	cols, err := appendColumnLabel(f.cols, label)
	if err != nil {
		return err
	}
	// assign both fields only after every step has succeeded, so a failed
	// call leaves no partial update visible
	f.data = data
	f.cols = cols
	return nil
}

// Assign returns a new Frame with a column appended, leaving this one
// unchanged. It is the immutable counterpart of SetColumn.
func (f *frameImpl) Assign(label sparsity.Label, values interface{}) (sparsity.Frame, error) {
	out := &frameImpl{data: f.data, idx: f.idx, cols: f.cols}
	if err := out.SetColumn(label, values); err != nil {
		return nil, err
	}
	return out, nil
}

func appendColumnLabel(cols sparsity.Index, label sparsity.Label) (sparsity.Index, error) {
	single, err := index.Create([]sparsity.Label{label}, "")
	if err != nil {
		return nil, err
	}
	if cols.Len() == 0 {
		return single, nil
	}
	return cols.Union(single)
}

// Rename returns a new Frame with every column label replaced by fn(label)
func (f *frameImpl) Rename(fn func(sparsity.Label) sparsity.Label) sparsity.Frame {
	return &frameImpl{data: f.data, idx: f.idx, cols: mapLabels(f.cols, fn)}
}

// RenameInPlace replaces every column label by fn(label) on this Frame
func (f *frameImpl) RenameInPlace(fn func(sparsity.Label) sparsity.Label) {
	f.cols = mapLabels(f.cols, fn)
}

func mapLabels(cols sparsity.Index, fn func(sparsity.Label) sparsity.Label) sparsity.Index {
	labels := cols.Labels(0)
	for i, l := range labels {
		labels[i] = fn(l)
	}
	out, err := index.Create(labels, "")
	if err != nil {
		// a rename that mixes label kinds falls back to string labels
		for i, l := range labels {
			labels[i] = sparsity.String(l.String())
		}
		out, _ = index.Create(labels, "")
	}
	return out
}

// Drop removes the given labels from an axis; labels absent from the axis are
// ignored
func (f *frameImpl) Drop(labels []sparsity.Label, axis sparsity.Axis) (sparsity.Frame, error) {
	target := f.cols
	if axis == sparsity.AxisIndex {
		target = f.idx
	}
	dropped := make(map[int]bool)
	for _, l := range labels {
		positions, err := target.PositionOf(l)
		if err != nil {
			continue
		}
		for _, pos := range positions {
			dropped[pos] = true
		}
	}
	kept := make([]int, 0, target.Len())
	for pos := 0; pos < target.Len(); pos++ {
		if !dropped[pos] {
			kept = append(kept, pos)
		}
	}
	if axis == sparsity.AxisIndex {
		return f.slice(kept, nil)
	}
	return f.slice(nil, kept)
}

// Reindex conforms an axis to the given labels. Labels absent from the source
// axis produce zero-filled rows or columns; a source axis with duplicate
// labels cannot be reindexed.
func (f *frameImpl) Reindex(labels []sparsity.Label, axis sparsity.Axis) (sparsity.Frame, error) {
	source := f.cols
	if axis == sparsity.AxisIndex {
		source = f.idx
	}
	if source.HasDuplicates() {
		return nil, errors.AmbiguousWriteError{Label: source.At(firstDuplicate(source))[0]}
	}
	mapping := make([]int, len(labels))
	for i, l := range labels {
		positions, err := source.PositionOf(l)
		if err != nil {
			mapping[i] = sparsity.Absent
			continue
		}
		mapping[i] = positions[0]
	}
	target, err := index.Create(labels, source.LevelNames()[0])
	if err != nil {
		return nil, err
	}
	if axis == sparsity.AxisIndex {
		data := csr.Expand(f.data, mapping, identityMap(f.cols.Len()), 0)
		return Create(data, target, f.cols)
	}
	data := csr.Expand(f.data, identityMap(f.idx.Len()), mapping, 0)
	return Create(data, f.idx, target)
}

func firstDuplicate(idx sparsity.Index) int {
	first := idx.FirstOccurrences()
	seen := make(map[int]bool, len(first))
	for _, pos := range first {
		seen[pos] = true
	}
	for pos := 0; pos < idx.Len(); pos++ {
		if !seen[pos] {
			return pos
		}
	}
	return 0
}

func identityMap(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}

// ResetIndex replaces the row Index with a 0..n-1 range
func (f *frameImpl) ResetIndex() sparsity.Frame {
	return &frameImpl{data: f.data, idx: index.Range(f.idx.Len()), cols: f.cols}
}

// SetIndex replaces the row Index with explicit labels
func (f *frameImpl) SetIndex(idx sparsity.Index) (sparsity.Frame, error) {
	if idx.Len() != f.idx.Len() {
		return nil, errors.ShapeError{
			Op:    "set index",
			Left:  f.Shape(),
			Right: sparsity.Shape{Rows: idx.Len(), Cols: f.cols.Len()},
		}
	}
	return &frameImpl{data: f.data, idx: idx, cols: f.cols}, nil
}

// SetIndexLevel keeps a single level of a multi-level row Index
func (f *frameImpl) SetIndexLevel(level int) (sparsity.Frame, error) {
	if level < 0 || level >= f.idx.NumLevels() {
		return nil, errors.BoundsError{Position: level, Length: f.idx.NumLevels()}
	}
	idx, err := index.Create(f.idx.Labels(level), f.idx.LevelNames()[level])
	if err != nil {
		return nil, err
	}
	return f.SetIndex(idx)
}

// SetIndexColumn re-keys rows by an existing column's values
func (f *frameImpl) SetIndexColumn(label sparsity.Label) (sparsity.Frame, error) {
	positions, err := f.cols.PositionOf(label)
	if err != nil {
		return nil, err
	}
	if len(positions) > 1 {
		return nil, errors.AmbiguousWriteError{Label: label}
	}
	labels := make([]sparsity.Label, f.idx.Len())
	for i := range labels {
		labels[i] = sparsity.Float(f.data.At(i, positions[0]))
	}
	idx, err := index.Create(labels, label.String())
	if err != nil {
		return nil, err
	}
	return f.SetIndex(idx)
}
