package index

import (
	"sort"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

// Align reconciles this Index with another ahead of an elementwise
// combination. The result holds the sorted union of distinct full labels of
// both sides and, per side, the mapping from union position to the first
// original position, or sparsity.Absent. Aligning with an empty Index
// returns the non-empty side unchanged.
func (idx *indexImpl) Align(other sparsity.Index) (*sparsity.Alignment, error) {
	if other.NumLevels() != idx.NumLevels() {
		return nil, errors.ParameterError{Msg: "cannot align indexes with different level counts"}
	}
	if other.Len() == 0 {
		return &sparsity.Alignment{Union: idx, Left: identity(idx.Len()), Right: absent(idx.Len())}, nil
	}
	if idx.Len() == 0 {
		return &sparsity.Alignment{Union: other, Left: absent(other.Len()), Right: identity(other.Len())}, nil
	}

	type entry struct {
		labels []sparsity.Label
		left   int
		right  int
	}
	merged := make(map[uint64]*entry)
	var buf []byte
	for pos := 0; pos < idx.Len(); pos++ {
		buf = idx.fullKey(buf[:0], pos)
		h := xxhash.Sum64(buf)
		if _, ok := merged[h]; !ok {
			merged[h] = &entry{labels: idx.At(pos), left: pos, right: sparsity.Absent}
		}
	}
	for pos := 0; pos < other.Len(); pos++ {
		labels := other.At(pos)
		buf = buf[:0]
		for _, l := range labels {
			buf = l.AppendKey(buf)
		}
		h := xxhash.Sum64(buf)
		if e, ok := merged[h]; ok {
			if e.right == sparsity.Absent {
				e.right = pos
			}
		} else {
			merged[h] = &entry{labels: labels, left: sparsity.Absent, right: pos}
		}
	}

	entries := make([]*entry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(a, b int) bool {
		return compareTuples(entries[a].labels, entries[b].labels) < 0
	})

	levels := make([][]sparsity.Label, idx.NumLevels())
	left := make([]int, len(entries))
	right := make([]int, len(entries))
	for lv := range levels {
		levels[lv] = make([]sparsity.Label, len(entries))
	}
	for u, e := range entries {
		for lv, l := range e.labels {
			levels[lv][u] = l
		}
		left[u] = e.left
		right[u] = e.right
	}
	union, err := CreateMulti(levels, idx.names)
	if err != nil {
		return nil, err
	}
	return &sparsity.Alignment{Union: union, Left: left, Right: right}, nil
}

func identity(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}

func absent(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = sparsity.Absent
	}
	return positions
}
