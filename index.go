package sparsity

// Absent marks a union position with no counterpart in an aligned Index
const Absent = -1

// An Alignment is the result of reconciling two Indexes before an elementwise
// combination. Union holds the sorted distinct labels of both sides; Left and
// Right map each union position to the original position on that side, or
// Absent.
type Alignment struct {
	Union Index
	Left  []int
	Right []int
}

// An Index is an ordered sequence of row or column labels, flat or
// multi-level. Labels need not be unique: duplicate-label lookup returns
// every matching position in original relative order. A sorted index
// additionally supports inclusive range slicing.
type Index interface {
	Len() int                                          // Len returns the number of labels
	NumLevels() int                                    // NumLevels returns 1 for a flat Index, more for a multi-level one
	LevelNames() []string                              // LevelNames returns the name of each level
	Kind() LabelKind                                   // Kind returns the label kind of the outermost level
	LevelKind(level int) LabelKind                     // LevelKind returns the label kind of a level
	Labels(level int) []Label                          // Labels returns the label of every position at a level
	At(pos int) []Label                                // At returns the full (one label per level) label at a position
	IsSorted() bool                                    // IsSorted returns true iff the outermost level is in ascending order
	HasDuplicates() bool                               // HasDuplicates returns true iff any full label occurs more than once
	PositionOf(key Label) ([]int, error)               // PositionOf returns every position whose outermost label matches, in original order
	PositionsOf(keys []Label) ([]int, error)           // PositionsOf concatenates PositionOf for each key, failing on the first missing one
	Slice(start *Label, end *Label) ([]int, error)     // Slice returns the positions between two labels inclusive; requires a sorted Index. Nil endpoints are open.
	Mask(pred func(pos int, labels []Label) bool) []int // Mask returns the positions where a predicate over the index holds
	Subset(positions []int) Index                      // Subset returns a new Index of the labels at the given positions, in the given order
	Union(other Index) (Index, error)                  // Union appends another Index positionally, preserving duplicates
	Align(other Index) (*Alignment, error)             // Align reconciles two Indexes to their sorted distinct label union
	Unique() Index                                     // Unique returns the distinct full labels, keeping first occurrences in order
	FirstOccurrences() []int                           // FirstOccurrences returns the position of the first occurrence of each distinct full label
	SortPositions() []int                              // SortPositions returns the positions that would stably sort this Index
	Equal(other Index) bool                            // Equal returns true iff both Indexes hold identical labels in identical order
}
