package frame

import (
	"math"
	"math/rand"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

// Sample draws rows (axis 0) or columns (axis 1) uniformly at random.
// Exactly one of N and Frac must be set; weighted sampling is unsupported.
func (f *frameImpl) Sample(conf *sparsity.SampleConf) (sparsity.Frame, error) {
	if conf == nil || (conf.N == nil) == (conf.Frac == nil) {
		return nil, errors.ParameterError{Msg: "sampling requires exactly one of n and frac"}
	}
	if conf.Weights != nil {
		return nil, errors.UnsupportedError{Feature: "weighted sampling"}
	}
	if conf.Axis != sparsity.AxisIndex && conf.Axis != sparsity.AxisColumns {
		return nil, errors.ParameterError{Msg: "sample axis must be 0 or 1"}
	}
	axisLen := f.idx.Len()
	if conf.Axis == sparsity.AxisColumns {
		axisLen = f.cols.Len()
	}
	n := 0
	if conf.N != nil {
		n = *conf.N
	} else {
		n = int(math.Round(*conf.Frac * float64(axisLen)))
	}
	if n < 0 {
		return nil, errors.ParameterError{Msg: "cannot sample a negative count"}
	}
	if !conf.Replace && n > axisLen {
		return nil, errors.ParameterError{Msg: "cannot sample more than the axis length without replacement"}
	}
	if conf.Replace && n > 0 && axisLen == 0 {
		return nil, errors.ParameterError{Msg: "cannot sample from an empty axis"}
	}
	var positions []int
	if conf.Replace {
		positions = make([]int, n)
		for i := range positions {
			positions[i] = rand.Intn(axisLen)
		}
	} else {
		positions = rand.Perm(axisLen)[:n]
	}
	if conf.Axis == sparsity.AxisColumns {
		return f.slice(nil, positions)
	}
	return f.slice(positions, nil)
}

// SortIndex stably sorts rows by their full labels, ascending
func (f *frameImpl) SortIndex() sparsity.Frame {
	out, _ := f.slice(f.idx.SortPositions(), nil)
	return out
}

// DropDuplicateIdx keeps the first occurrence of each distinct row label,
// preserving row order otherwise
func (f *frameImpl) DropDuplicateIdx() sparsity.Frame {
	out, _ := f.slice(f.idx.FirstOccurrences(), nil)
	return out
}

// DropNaN removes rows whose row-index label is the not-a-number sentinel.
// Unaffected rows keep their original relative order.
func (f *frameImpl) DropNaN() sparsity.Frame {
	kept := f.idx.Mask(func(pos int, labels []sparsity.Label) bool {
		return !labels[0].IsNaN()
	})
	if kept == nil {
		kept = []int{}
	}
	out, _ := f.slice(kept, nil)
	return out
}
