package sparsity

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"
)

// LabelKind identifies the concrete type of a Label. The kind of every label
// in an index level is resolved once, when the index is constructed, so that
// lookups compare labels without per-comparison type dispatch.
type LabelKind uint8

const (
	// KindInt labels hold signed 64-bit integers
	KindInt LabelKind = iota
	// KindFloat labels hold 64-bit floats, including the NaN sentinel
	KindFloat
	// KindString labels hold strings
	KindString
	// KindTime labels hold instants in time
	KindTime
)

// LabelKindToString translates a LabelKind to a string representation
func LabelKindToString(kind LabelKind) string {
	switch kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// A Label is a single orderable row or column identifier. Labels of the same
// kind are totally ordered; int and float labels additionally compare against
// each other numerically.
type Label struct {
	kind LabelKind
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Int returns a Label holding an integer
func Int(v int64) Label {
	return Label{kind: KindInt, i: v}
}

// Float returns a Label holding a float
func Float(v float64) Label {
	return Label{kind: KindFloat, f: v}
}

// String returns a Label holding a string
func String(v string) Label {
	return Label{kind: KindString, s: v}
}

// Time returns a Label holding an instant in time
func Time(v time.Time) Label {
	return Label{kind: KindTime, t: v.UTC()}
}

// NaN returns the not-a-number sentinel Label
func NaN() Label {
	return Label{kind: KindFloat, f: math.NaN()}
}

// Kind returns the kind of this Label
func (l Label) Kind() LabelKind {
	return l.kind
}

// IsNaN returns true iff this Label is the not-a-number sentinel
func (l Label) IsNaN() bool {
	return l.kind == KindFloat && math.IsNaN(l.f)
}

// IntValue returns the integer held by a KindInt label
func (l Label) IntValue() int64 { return l.i }

// FloatValue returns the float held by a KindFloat label
func (l Label) FloatValue() float64 { return l.f }

// StringValue returns the string held by a KindString label
func (l Label) StringValue() string { return l.s }

// TimeValue returns the instant held by a KindTime label
func (l Label) TimeValue() time.Time { return l.t }

// Less reports whether this Label sorts before another. Labels of
// incomparable kinds sort by kind, which keeps sorting total.
func (l Label) Less(other Label) bool {
	if l.kind != other.kind {
		if ln, ok := l.numeric(); ok {
			if on, ok := other.numeric(); ok {
				return ln < on
			}
		}
		return l.kind < other.kind
	}
	switch l.kind {
	case KindInt:
		return l.i < other.i
	case KindFloat:
		// NaN sorts last
		if math.IsNaN(l.f) {
			return false
		}
		if math.IsNaN(other.f) {
			return true
		}
		return l.f < other.f
	case KindString:
		return l.s < other.s
	default:
		return l.t.Before(other.t)
	}
}

// Equal reports whether two Labels are equal. The NaN sentinel is not equal
// to itself, matching float semantics; grouping and duplicate detection use
// AppendKey instead, which treats all NaNs as one value.
func (l Label) Equal(other Label) bool {
	if l.kind != other.kind {
		if ln, ok := l.numeric(); ok {
			if on, ok := other.numeric(); ok {
				return ln == on
			}
		}
		return false
	}
	switch l.kind {
	case KindInt:
		return l.i == other.i
	case KindFloat:
		return l.f == other.f
	case KindString:
		return l.s == other.s
	default:
		return l.t.Equal(other.t)
	}
}

func (l Label) numeric() (float64, bool) {
	switch l.kind {
	case KindInt:
		return float64(l.i), true
	case KindFloat:
		return l.f, true
	default:
		return 0, false
	}
}

// AppendKey appends a unique binary encoding of this Label to a buffer,
// suitable for hashing. All NaN sentinels encode identically so that hashed
// grouping treats them as one value.
func (l Label) AppendKey(buf []byte) []byte {
	buf = append(buf, byte(l.kind))
	switch l.kind {
	case KindInt:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(l.i))
		buf = append(buf, b[:]...)
	case KindFloat:
		f := l.f
		if math.IsNaN(f) {
			f = math.NaN()
		}
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		buf = append(buf, b[:]...)
	case KindString:
		buf = append(buf, l.s...)
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(l.t.UnixNano()))
		buf = append(buf, b[:]...)
	}
	return buf
}

// String returns a textual representation of this Label
func (l Label) String() string {
	switch l.kind {
	case KindInt:
		return strconv.FormatInt(l.i, 10)
	case KindFloat:
		return strconv.FormatFloat(l.f, 'g', -1, 64)
	case KindString:
		return l.s
	default:
		return l.t.Format(time.RFC3339)
	}
}

// timeLayouts are the accepted textual forms when coercing a string label
// against a chronological index.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceLabel converts a lookup key to the kind of the index level it is
// compared against. An ISO date string or an integer timestamp compare
// against a chronological index; ints and floats compare against each other.
func CoerceLabel(l Label, kind LabelKind) (Label, error) {
	if l.kind == kind {
		return l, nil
	}
	switch kind {
	case KindFloat:
		if l.kind == KindInt {
			return Float(float64(l.i)), nil
		}
	case KindInt:
		if l.kind == KindFloat && l.f == math.Trunc(l.f) && !math.IsNaN(l.f) {
			return Int(int64(l.f)), nil
		}
	case KindTime:
		if l.kind == KindString {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, l.s); err == nil {
					return Time(t), nil
				}
			}
		}
	}
	return Label{}, fmt.Errorf("cannot compare %s label %s against a %s index",
		LabelKindToString(l.kind), l.String(), LabelKindToString(kind))
}

// Ints converts a slice of integers to Labels
func Ints(vs []int64) []Label {
	ls := make([]Label, len(vs))
	for i, v := range vs {
		ls[i] = Int(v)
	}
	return ls
}

// Floats converts a slice of floats to Labels
func Floats(vs []float64) []Label {
	ls := make([]Label, len(vs))
	for i, v := range vs {
		ls[i] = Float(v)
	}
	return ls
}

// Strings converts a slice of strings to Labels
func Strings(vs []string) []Label {
	ls := make([]Label, len(vs))
	for i, v := range vs {
		ls[i] = String(v)
	}
	return ls
}

// Times converts a slice of instants to Labels
func Times(vs []time.Time) []Label {
	ls := make([]Label, len(vs))
	for i, v := range vs {
		ls[i] = Time(v)
	}
	return ls
}
