package frame

import (
	"sort"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
	"gonum.org/v1/gonum/mat"
)

// group collects the row positions sharing one grouping key
type group struct {
	key       sparsity.Label
	positions []int
}

// resolveGroups buckets rows by an external key array, or by a row-index
// level when by is nil. Output groups are sorted by key in ascending order.
func (f *frameImpl) resolveGroups(by []sparsity.Label, level int) ([]group, error) {
	var keys []sparsity.Label
	if by != nil {
		if len(by) != f.idx.Len() {
			return nil, errors.ShapeError{
				Op:    "groupby",
				Left:  sparsity.Shape{Rows: f.idx.Len(), Cols: 1},
				Right: sparsity.Shape{Rows: len(by), Cols: 1},
			}
		}
		keys = by
	} else {
		if level < 0 || level >= f.idx.NumLevels() {
			return nil, errors.BoundsError{Position: level, Length: f.idx.NumLevels()}
		}
		keys = f.idx.Labels(level)
	}
	buckets := make(map[uint64]*group)
	var buf []byte
	for pos, key := range keys {
		buf = key.AppendKey(buf[:0])
		h := xxhash.Sum64(buf)
		g, ok := buckets[h]
		if !ok {
			g = &group{key: key}
			buckets[h] = g
		}
		g.positions = append(g.positions, pos)
	}
	groups := make([]group, 0, len(buckets))
	for _, g := range buckets {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].key.Less(groups[b].key) })
	return groups, nil
}

// GroupbySum groups rows by the row index, or by an externally supplied key
// array of matching length, and sums each group's rows elementwise. The
// output row index is the sorted sequence of distinct group keys; the column
// index is unchanged.
func (f *frameImpl) GroupbySum(by []sparsity.Label) (sparsity.Frame, error) {
	groups, err := f.resolveGroups(by, 0)
	if err != nil {
		return nil, err
	}
	values, colInd, rowPtr := f.data.Values(), f.data.ColIndices(), f.data.RowPointers()
	nCols := f.cols.Len()
	rows := make([][]float64, len(groups))
	keys := make([]sparsity.Label, len(groups))
	for gi, g := range groups {
		row := make([]float64, nCols)
		for _, pos := range g.positions {
			for k := rowPtr[pos]; k < rowPtr[pos+1]; k++ {
				row[colInd[k]] += values[k]
			}
		}
		rows[gi] = row
		keys[gi] = g.key
	}
	data, err := csr.FromRows(rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		data = csr.Zeros(0, nCols)
	}
	idx, err := index.Create(keys, groupIndexName(f.idx, by, 0))
	if err != nil {
		return nil, err
	}
	return Create(data, idx, f.cols)
}

// GroupbyAgg generalizes GroupbySum with a caller-supplied aggregator that
// reduces each group's dense row block to one output row. Grouping is by a
// named row-index level, or by an external key array.
func (f *frameImpl) GroupbyAgg(conf *sparsity.GroupbyConf) (sparsity.Frame, error) {
	if conf == nil || conf.Agg == nil {
		return nil, errors.ParameterError{Msg: "groupby aggregation requires an aggregator"}
	}
	groups, err := f.resolveGroups(conf.By, conf.Level)
	if err != nil {
		return nil, err
	}
	nCols := f.cols.Len()
	rows := make([][]float64, len(groups))
	keys := make([]sparsity.Label, len(groups))
	for gi, g := range groups {
		block := f.denseBlock(g.positions)
		row := conf.Agg(block)
		if len(row) != nCols {
			return nil, errors.ShapeError{
				Op:    "groupby aggregation",
				Left:  sparsity.Shape{Rows: 1, Cols: nCols},
				Right: sparsity.Shape{Rows: 1, Cols: len(row)},
			}
		}
		rows[gi] = row
		keys[gi] = g.key
	}
	data, err := csr.FromRows(rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		data = csr.Zeros(0, nCols)
	}
	idx, err := index.Create(keys, groupIndexName(f.idx, conf.By, conf.Level))
	if err != nil {
		return nil, err
	}
	return Create(data, idx, f.cols)
}

// denseBlock materializes the given rows as a dense block. An empty block
// yields an empty dense matrix.
func (f *frameImpl) denseBlock(positions []int) *mat.Dense {
	nCols := f.cols.Len()
	if len(positions) == 0 || nCols == 0 {
		return &mat.Dense{}
	}
	return f.data.RowsAt(positions).ToDense()
}

func groupIndexName(idx sparsity.Index, by []sparsity.Label, level int) string {
	if by != nil {
		return ""
	}
	return idx.LevelNames()[level]
}
