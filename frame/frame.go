// Package frame implements the aligned table at the core of this module: a
// compressed sparse row matrix combined with a row index and a column index,
// plus the index-aware operations defined by sparsity.Frame.
package frame

import (
	"fmt"
	"strings"

	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
	"gonum.org/v1/gonum/mat"
)

// renderLimit is the largest axis length rendered in full by String
const renderLimit = 25

// frameImpl is the implementation of sparsity.Frame
type frameImpl struct {
	data sparsity.Matrix
	idx  sparsity.Index
	cols sparsity.Index
}

// Create builds a Frame from a sparse Matrix and explicit row and column
// Indexes. A nil index defaults to a 0..n-1 range. The matrix shape must
// equal (index length, columns length); a mismatch is a construction-time
// error, never a silently truncated result.
func Create(data sparsity.Matrix, idx sparsity.Index, cols sparsity.Index) (sparsity.Frame, error) {
	if data == nil {
		data = csr.Zeros(0, 0)
	}
	shape := data.Shape()
	if idx == nil {
		idx = index.Range(shape.Rows)
	}
	if cols == nil {
		cols = index.Range(shape.Cols)
	}
	want := sparsity.Shape{Rows: idx.Len(), Cols: cols.Len()}
	if !shape.Equal(want) {
		return nil, errors.ShapeError{Op: "construct", Left: shape, Right: want}
	}
	return &frameImpl{data: data, idx: idx, cols: cols}, nil
}

// FromDense builds a Frame from a dense gonum matrix
func FromDense(d mat.Matrix, idx sparsity.Index, cols sparsity.Index) (sparsity.Frame, error) {
	return Create(csr.FromDense(d), idx, cols)
}

// FromRows builds a Frame from dense row slices
func FromRows(rows [][]float64, idx sparsity.Index, cols sparsity.Index) (sparsity.Frame, error) {
	m, err := csr.FromRows(rows)
	if err != nil {
		return nil, err
	}
	return Create(m, idx, cols)
}

// Meta derives the zero-row planning instance of a Frame: same column index,
// same row-index structure, no data. Every Frame operation applied to a meta
// succeeds and yields a correctly-shaped empty meta.
func Meta(f sparsity.Frame) sparsity.Frame {
	out, _ := Create(csr.Zeros(0, f.Columns().Len()), f.Index().Subset(nil), f.Columns())
	return out
}

// Shape returns the (rows, cols) dimensions of this Frame
func (f *frameImpl) Shape() sparsity.Shape {
	return f.data.Shape()
}

// Data returns the backing sparse Matrix
func (f *frameImpl) Data() sparsity.Matrix {
	return f.data
}

// Index returns the row Index
func (f *frameImpl) Index() sparsity.Index {
	return f.idx
}

// Columns returns the column Index
func (f *frameImpl) Columns() sparsity.Index {
	return f.cols
}

// Empty returns true iff this Frame has no rows
func (f *frameImpl) Empty() bool {
	return f.idx.Len() == 0
}

// ToDense materializes the backing Matrix densely
func (f *frameImpl) ToDense() *mat.Dense {
	return f.data.ToDense()
}

// String renders a small Frame fully, a large one as a summary line
func (f *frameImpl) String() string {
	shape := f.Shape()
	if shape.Rows > renderLimit || shape.Cols > renderLimit {
		return fmt.Sprintf("<Frame of shape %dx%d with %d stored entries>",
			shape.Rows, shape.Cols, f.data.NonzeroCount())
	}
	var b strings.Builder
	for _, l := range f.cols.Labels(0) {
		fmt.Fprintf(&b, "\t%s", l)
	}
	b.WriteByte('\n')
	for i := 0; i < shape.Rows; i++ {
		b.WriteString(labelString(f.idx.At(i)))
		for j := 0; j < shape.Cols; j++ {
			fmt.Fprintf(&b, "\t%g", f.data.At(i, j))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "[%d rows x %d columns]", shape.Rows, shape.Cols)
	return b.String()
}

func labelString(labels []sparsity.Label) string {
	if len(labels) == 1 {
		return labels[0].String()
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
