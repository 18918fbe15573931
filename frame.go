package sparsity

import "gonum.org/v1/gonum/mat"

// A SelectorKind identifies what a Selector selects by
type SelectorKind uint8

const (
	// SelectAll keeps an axis unchanged
	SelectAll SelectorKind = iota
	// SelectLabel selects every position matching a single label
	SelectLabel
	// SelectLabels selects an ordered sequence of labels
	SelectLabels
	// SelectMask selects positions where a boolean mask is true
	SelectMask
	// SelectRange selects an inclusive label range on a sorted index
	SelectRange
)

// A Selector describes label-based selection along one axis of a Frame
type Selector struct {
	kind   SelectorKind
	label  Label
	labels []Label
	mask   []bool
	start  *Label
	end    *Label
}

// All returns a Selector keeping an axis unchanged
func All() Selector {
	return Selector{kind: SelectAll}
}

// ByLabel returns a Selector matching a single label. All duplicate
// occurrences are selected, in original order.
func ByLabel(l Label) Selector {
	return Selector{kind: SelectLabel, label: l}
}

// ByLabels returns a Selector matching an ordered sequence of labels
func ByLabels(ls []Label) Selector {
	return Selector{kind: SelectLabels, labels: ls}
}

// ByMask returns a Selector keeping positions where the mask is true. The
// mask length must equal the axis length.
func ByMask(mask []bool) Selector {
	return Selector{kind: SelectMask, mask: mask}
}

// ByRange returns a Selector for an inclusive label range on a sorted index
func ByRange(start Label, end Label) Selector {
	return Selector{kind: SelectRange, start: &start, end: &end}
}

// ByRangeFrom returns a Selector for the inclusive range starting at a label
// and running to the end of a sorted index
func ByRangeFrom(start Label) Selector {
	return Selector{kind: SelectRange, start: &start}
}

// ByRangeTo returns a Selector for the inclusive range from the beginning of
// a sorted index up to a label
func ByRangeTo(end Label) Selector {
	return Selector{kind: SelectRange, end: &end}
}

// Kind returns the kind of this Selector
func (s Selector) Kind() SelectorKind { return s.kind }

// Label returns the single label of a SelectLabel Selector
func (s Selector) Label() Label { return s.label }

// Labels returns the labels of a SelectLabels Selector
func (s Selector) Labels() []Label { return s.labels }

// MaskValues returns the mask of a SelectMask Selector
func (s Selector) MaskValues() []bool { return s.mask }

// Range returns the endpoints of a SelectRange Selector; nil endpoints are open
func (s Selector) Range() (start *Label, end *Label) { return s.start, s.end }

// An AddConf configures alignment-based addition. The zero value (or a nil
// pointer) fills cells absent from one side with zero.
type AddConf struct {
	Fill   float64 // Fill is the value assumed for cells absent from one side
	NoFill bool    // NoFill disables defaulting: addition fails if either side has labels the other lacks
}

// A JoinConf configures column-joining. The zero value (or a nil pointer)
// suffixes colliding column labels with "_r".
type JoinConf struct {
	Suffix string // Suffix is appended to the other Frame's colliding column labels
}

// An AggFunc reduces a dense row block (the rows of one group) to a single
// output row of the same width
type AggFunc func(block *mat.Dense) []float64

// A GroupbyConf configures groupby-aggregation
type GroupbyConf struct {
	Level int     // Level is the row-index level to group by. Defaults to the outermost level.
	By    []Label // By supplies external grouping keys of matching length, overriding Level
	Agg   AggFunc // Agg reduces each group's rows to one output row
}

// A SampleConf configures uniform random sampling. Exactly one of N and Frac
// must be set.
type SampleConf struct {
	N       *int      // N is the number of rows or columns to draw
	Frac    *float64  // Frac is the fraction of the axis length to draw
	Axis    Axis      // Axis selects rows (AxisIndex) or columns (AxisColumns)
	Replace bool      // Replace enables sampling with replacement
	Weights []float64 // Weights is unsupported and must be nil
}

// A Frame is the aligned table at the core of this module: a sparse Matrix
// combined with a row Index and a column Index, whose shape always equals
// (index length, columns length). Frames are immutable by convention - every
// operation returns a new Frame and never mutates its inputs - except
// SetColumn and RenameInPlace, which mutate the owning Frame atomically from
// the caller's perspective.
type Frame interface {
	Shape() Shape      // Shape returns the (rows, cols) dimensions of this Frame
	Data() Matrix      // Data returns the backing sparse Matrix
	Index() Index      // Index returns the row Index
	Columns() Index    // Columns returns the column Index
	Empty() bool       // Empty returns true iff this Frame has no rows
	ToDense() *mat.Dense // ToDense materializes the backing Matrix densely
	String() string    // String renders a small Frame fully, a large one as a summary line

	Select(rows Selector, cols Selector) (Frame, error)        // Select resolves label-based selectors on both axes. A single label collapses to a 1-row (or 1-column) Frame, never a scalar.
	AtPosition(rowPositions []int, colPositions []int) (Frame, error) // AtPosition is pure integer-offset access with no label resolution

	SetColumn(label Label, values interface{}) error       // SetColumn appends a new column in place; assigning to an existing label is unsupported
	Assign(label Label, values interface{}) (Frame, error) // Assign returns a new Frame with a column appended, leaving this one unchanged
	Rename(fn func(Label) Label) Frame                     // Rename returns a new Frame with every column label replaced by fn(label)
	RenameInPlace(fn func(Label) Label)                    // RenameInPlace replaces every column label by fn(label) on this Frame
	Drop(labels []Label, axis Axis) (Frame, error)         // Drop removes the given labels from an axis; missing labels are ignored
	Reindex(labels []Label, axis Axis) (Frame, error)      // Reindex conforms an axis to the given labels, zero-filling absences; fails on a duplicate source axis
	ResetIndex() Frame                                     // ResetIndex replaces the row Index with a 0..n-1 range
	SetIndex(idx Index) (Frame, error)                     // SetIndex replaces the row Index with explicit labels
	SetIndexLevel(level int) (Frame, error)                // SetIndexLevel keeps a single level of a multi-level row Index
	SetIndexColumn(label Label) (Frame, error)             // SetIndexColumn re-keys rows by an existing column's values

	Add(other Frame, conf *AddConf) (Frame, error)            // Add aligns both axes to their sorted unions, then sums elementwise
	Multiply(other interface{}, axis Axis) (Frame, error)     // Multiply broadcasts an alignable operand (slice, vector, matrix or Frame) elementwise
	Sum(axis Axis) []float64                                  // Sum reduces along an axis: column sums for AxisIndex, row sums for AxisColumns
	Join(other Frame, axis Axis, conf *JoinConf) (Frame, error) // Join row-stacks (axis 0) or left-joins on the caller's row index (axis 1)
	GroupbySum(by []Label) (Frame, error)                     // GroupbySum sums rows per group; nil groups by the row index
	GroupbyAgg(conf *GroupbyConf) (Frame, error)              // GroupbyAgg reduces each group's rows with a caller-supplied aggregator
	Sample(conf *SampleConf) (Frame, error)                   // Sample draws rows or columns uniformly at random
	SortIndex() Frame                                         // SortIndex stably sorts rows by their labels
	DropDuplicateIdx() Frame                                  // DropDuplicateIdx keeps the first occurrence of each distinct row label
	DropNaN() Frame                                           // DropNaN removes rows whose label is the not-a-number sentinel
}
