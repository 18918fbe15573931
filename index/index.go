// Package index implements the flat and multi-level label indexes which
// identify the rows and columns of a Frame.
package index

import (
	"sort"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

// indexImpl is the implementation of sparsity.Index. A flat index is a
// multi-level index with a single level. Label kinds are resolved once at
// construction; lookups hash the outermost level so duplicate labels resolve
// without a full scan.
type indexImpl struct {
	levels [][]sparsity.Label
	names  []string
	kinds  []sparsity.LabelKind
	sorted bool
	lookup map[uint64][]int
}

// Create builds a flat Index from labels
func Create(labels []sparsity.Label, name string) (sparsity.Index, error) {
	return CreateMulti([][]sparsity.Label{labels}, []string{name})
}

// CreateMulti builds a multi-level Index from one label array per level.
// Within a level all labels must share a kind; int and float labels are
// promoted to float when mixed.
func CreateMulti(levels [][]sparsity.Label, names []string) (sparsity.Index, error) {
	if len(levels) == 0 {
		return nil, errors.ParameterError{Msg: "an index requires at least one level"}
	}
	if names == nil {
		names = make([]string, len(levels))
	}
	if len(names) != len(levels) {
		return nil, errors.ParameterError{Msg: "an index requires one name per level"}
	}
	n := len(levels[0])
	kinds := make([]sparsity.LabelKind, len(levels))
	resolved := make([][]sparsity.Label, len(levels))
	for lv, labels := range levels {
		if len(labels) != n {
			return nil, errors.ShapeError{
				Op:    "index construction",
				Left:  sparsity.Shape{Rows: n, Cols: len(levels)},
				Right: sparsity.Shape{Rows: len(labels), Cols: len(levels)},
			}
		}
		kind, coerced, err := resolveKind(labels)
		if err != nil {
			return nil, err
		}
		kinds[lv] = kind
		resolved[lv] = coerced
	}
	idx := &indexImpl{levels: resolved, names: append([]string(nil), names...), kinds: kinds}
	idx.sorted = idx.computeSorted()
	idx.buildLookup()
	return idx, nil
}

// Range builds a flat integer Index 0..n-1
func Range(n int) sparsity.Index {
	labels := make([]sparsity.Label, n)
	for i := 0; i < n; i++ {
		labels[i] = sparsity.Int(int64(i))
	}
	idx, _ := Create(labels, "")
	return idx
}

// Empty builds an empty flat Index of a given kind
func Empty(kind sparsity.LabelKind) sparsity.Index {
	return &indexImpl{
		levels: [][]sparsity.Label{nil},
		names:  []string{""},
		kinds:  []sparsity.LabelKind{kind},
		sorted: true,
		lookup: map[uint64][]int{},
	}
}

// resolveKind determines the single kind shared by a level's labels,
// promoting mixed int/float labels to float
func resolveKind(labels []sparsity.Label) (sparsity.LabelKind, []sparsity.Label, error) {
	if len(labels) == 0 {
		return sparsity.KindInt, labels, nil
	}
	kind := labels[0].Kind()
	for _, l := range labels[1:] {
		if l.Kind() == kind {
			continue
		}
		if (l.Kind() == sparsity.KindInt && kind == sparsity.KindFloat) ||
			(l.Kind() == sparsity.KindFloat && kind == sparsity.KindInt) {
			kind = sparsity.KindFloat
			continue
		}
		return 0, nil, errors.ParameterError{
			Msg: "index level mixes " + sparsity.LabelKindToString(kind) +
				" and " + sparsity.LabelKindToString(l.Kind()) + " labels",
		}
	}
	promote := false
	for _, l := range labels {
		if l.Kind() != kind {
			promote = true
			break
		}
	}
	if !promote {
		return kind, labels, nil
	}
	coerced := make([]sparsity.Label, len(labels))
	for i, l := range labels {
		c, err := sparsity.CoerceLabel(l, kind)
		if err != nil {
			return 0, nil, err
		}
		coerced[i] = c
	}
	return kind, coerced, nil
}

func (idx *indexImpl) computeSorted() bool {
	level := idx.levels[0]
	for i := 1; i < len(level); i++ {
		if level[i].Less(level[i-1]) {
			return false
		}
	}
	return true
}

func (idx *indexImpl) buildLookup() {
	idx.lookup = make(map[uint64][]int, len(idx.levels[0]))
	var buf []byte
	for pos, l := range idx.levels[0] {
		buf = l.AppendKey(buf[:0])
		h := xxhash.Sum64(buf)
		idx.lookup[h] = append(idx.lookup[h], pos)
	}
}

// hashOf returns the lookup hash for a single label
func hashOf(l sparsity.Label) uint64 {
	return xxhash.Sum64(l.AppendKey(nil))
}

// fullKey appends the binary encoding of the complete label tuple at a position
func (idx *indexImpl) fullKey(buf []byte, pos int) []byte {
	for _, level := range idx.levels {
		buf = level[pos].AppendKey(buf)
	}
	return buf
}

// Len returns the number of labels
func (idx *indexImpl) Len() int {
	return len(idx.levels[0])
}

// NumLevels returns 1 for a flat Index, more for a multi-level one
func (idx *indexImpl) NumLevels() int {
	return len(idx.levels)
}

// LevelNames returns the name of each level
func (idx *indexImpl) LevelNames() []string {
	return append([]string(nil), idx.names...)
}

// Kind returns the label kind of the outermost level
func (idx *indexImpl) Kind() sparsity.LabelKind {
	return idx.kinds[0]
}

// LevelKind returns the label kind of a level
func (idx *indexImpl) LevelKind(level int) sparsity.LabelKind {
	return idx.kinds[level]
}

// Labels returns the label of every position at a level
func (idx *indexImpl) Labels(level int) []sparsity.Label {
	return append([]sparsity.Label(nil), idx.levels[level]...)
}

// At returns the full label at a position, one Label per level
func (idx *indexImpl) At(pos int) []sparsity.Label {
	full := make([]sparsity.Label, len(idx.levels))
	for lv, level := range idx.levels {
		full[lv] = level[pos]
	}
	return full
}

// IsSorted returns true iff the outermost level is in ascending order
func (idx *indexImpl) IsSorted() bool {
	return idx.sorted
}

// HasDuplicates returns true iff any full label occurs more than once
func (idx *indexImpl) HasDuplicates() bool {
	return len(idx.FirstOccurrences()) != idx.Len()
}

// PositionOf returns every position whose outermost label matches the key,
// in original relative order
func (idx *indexImpl) PositionOf(key sparsity.Label) ([]int, error) {
	coerced, err := sparsity.CoerceLabel(key, idx.kinds[0])
	if err != nil {
		return nil, errors.NotFoundError{Label: key}
	}
	positions := idx.lookup[hashOf(coerced)]
	matches := make([]int, 0, len(positions))
	for _, pos := range positions {
		if idx.levels[0][pos].Equal(coerced) {
			matches = append(matches, pos)
		}
	}
	if len(matches) == 0 {
		return nil, errors.NotFoundError{Label: key}
	}
	return matches, nil
}

// PositionsOf concatenates PositionOf for each key in the order given,
// failing with the first missing label
func (idx *indexImpl) PositionsOf(keys []sparsity.Label) ([]int, error) {
	positions := make([]int, 0, len(keys))
	for _, key := range keys {
		matches, err := idx.PositionOf(key)
		if err != nil {
			return nil, err
		}
		positions = append(positions, matches...)
	}
	return positions, nil
}

// Slice returns the positions between two labels inclusive of both endpoints.
// Only valid on a sorted Index. Endpoints of a different but comparable kind,
// such as an ISO date string against a chronological index, are coerced
// before comparison. Nil endpoints are open.
func (idx *indexImpl) Slice(start *sparsity.Label, end *sparsity.Label) ([]int, error) {
	if !idx.sorted {
		return nil, errors.ParameterError{Msg: "range selection requires a sorted index"}
	}
	level := idx.levels[0]
	lo := 0
	hi := len(level)
	if start != nil {
		s, err := sparsity.CoerceLabel(*start, idx.kinds[0])
		if err != nil {
			return nil, err
		}
		lo = sort.Search(len(level), func(i int) bool { return !level[i].Less(s) })
	}
	if end != nil {
		e, err := sparsity.CoerceLabel(*end, idx.kinds[0])
		if err != nil {
			return nil, err
		}
		hi = sort.Search(len(level), func(i int) bool { return e.Less(level[i]) })
	}
	if hi < lo {
		// inverted range selects nothing
		hi = lo
	}
	positions := make([]int, 0, hi-lo)
	for pos := lo; pos < hi; pos++ {
		positions = append(positions, pos)
	}
	return positions, nil
}

// Mask returns the positions where a predicate over the index holds
func (idx *indexImpl) Mask(pred func(pos int, labels []sparsity.Label) bool) []int {
	var positions []int
	for pos := 0; pos < idx.Len(); pos++ {
		if pred(pos, idx.At(pos)) {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Subset returns a new Index of the labels at the given positions, in the
// given order
func (idx *indexImpl) Subset(positions []int) sparsity.Index {
	levels := make([][]sparsity.Label, len(idx.levels))
	for lv, level := range idx.levels {
		sub := make([]sparsity.Label, len(positions))
		for i, pos := range positions {
			sub[i] = level[pos]
		}
		levels[lv] = sub
	}
	out := &indexImpl{levels: levels, names: append([]string(nil), idx.names...), kinds: append([]sparsity.LabelKind(nil), idx.kinds...)}
	out.sorted = out.computeSorted()
	out.buildLookup()
	return out
}

// Union appends another Index positionally. Duplicates are preserved and no
// reconciliation takes place; this is the same-axis concatenation used by
// row-stacking.
func (idx *indexImpl) Union(other sparsity.Index) (sparsity.Index, error) {
	if other.NumLevels() != idx.NumLevels() {
		return nil, errors.ParameterError{Msg: "cannot union indexes with different level counts"}
	}
	levels := make([][]sparsity.Label, len(idx.levels))
	for lv := range idx.levels {
		levels[lv] = append(append([]sparsity.Label(nil), idx.levels[lv]...), other.Labels(lv)...)
	}
	return CreateMulti(levels, idx.names)
}

// Equal returns true iff both Indexes hold identical labels in identical order
func (idx *indexImpl) Equal(other sparsity.Index) bool {
	if other.Len() != idx.Len() || other.NumLevels() != idx.NumLevels() {
		return false
	}
	for lv, level := range idx.levels {
		otherLevel := other.Labels(lv)
		for pos, l := range level {
			if !l.Equal(otherLevel[pos]) && !(l.IsNaN() && otherLevel[pos].IsNaN()) {
				return false
			}
		}
	}
	return true
}

// FirstOccurrences returns the position of the first occurrence of each
// distinct full label, in original order
func (idx *indexImpl) FirstOccurrences() []int {
	seen := make(map[uint64]bool, idx.Len())
	var positions []int
	var buf []byte
	for pos := 0; pos < idx.Len(); pos++ {
		buf = idx.fullKey(buf[:0], pos)
		h := xxhash.Sum64(buf)
		if !seen[h] {
			seen[h] = true
			positions = append(positions, pos)
		}
	}
	return positions
}

// Unique returns the distinct full labels, keeping first occurrences in order
func (idx *indexImpl) Unique() sparsity.Index {
	return idx.Subset(idx.FirstOccurrences())
}

// SortPositions returns the positions that would stably sort this Index by
// its full labels
func (idx *indexImpl) SortPositions() []int {
	positions := make([]int, idx.Len())
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return compareTuples(idx.At(positions[a]), idx.At(positions[b])) < 0
	})
	return positions
}

// compareTuples orders full labels lexicographically level by level
func compareTuples(a, b []sparsity.Label) int {
	for lv := range a {
		if a[lv].Less(b[lv]) {
			return -1
		}
		if b[lv].Less(a[lv]) {
			return 1
		}
	}
	return 0
}
