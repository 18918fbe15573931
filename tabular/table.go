// Package tabular provides the minimal row-oriented labeled dense table used
// as raw input to one-hot encoding, plus a JSONL reader for building such
// tables from line-delimited JSON.
package tabular

import (
	"fmt"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
)

// A ColumnKind identifies the value type of a table column
type ColumnKind uint8

const (
	// FloatColumn columns hold dense numeric values
	FloatColumn ColumnKind = iota
	// StringColumn columns hold categorical string values
	StringColumn
)

// A Column is one named column of a Table. String columns may carry a
// declared category order, the analogue of a categorical dtype.
type Column struct {
	Name       string
	Kind       ColumnKind
	Floats     []float64
	Strings    []string
	Categories []string
}

// Len returns the number of values in this Column
func (c *Column) Len() int {
	if c.Kind == FloatColumn {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// A Table is a row-oriented labeled dense table: an ordered set of equally
// long columns plus an optional row index
type Table struct {
	columns []*Column
	byName  map[string]int
	idx     sparsity.Index
	numRows int
}

// CreateTable builds an empty Table expecting columns of the given length
func CreateTable(numRows int) *Table {
	return &Table{byName: make(map[string]int), numRows: numRows}
}

// NumRows returns the number of rows in this Table
func (t *Table) NumRows() int {
	return t.numRows
}

// NumColumns returns the number of columns in this Table
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// ColumnNames returns the column names in insertion order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or an error naming the missing label
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, errors.NotFoundError{Label: sparsity.String(name)}
	}
	return t.columns[i], nil
}

// HasColumn returns true iff this Table contains a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// addColumn validates and appends a column
func (t *Table) addColumn(c *Column) error {
	if _, ok := t.byName[c.Name]; ok {
		return errors.ParameterError{Msg: fmt.Sprintf("table already contains column %s", c.Name)}
	}
	if c.Len() != t.numRows {
		return errors.ShapeError{
			Op:    "add column",
			Left:  sparsity.Shape{Rows: t.numRows, Cols: 1},
			Right: sparsity.Shape{Rows: c.Len(), Cols: 1},
		}
	}
	t.byName[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// AddFloatColumn appends a dense numeric column
func (t *Table) AddFloatColumn(name string, values []float64) error {
	return t.addColumn(&Column{Name: name, Kind: FloatColumn, Floats: values})
}

// AddStringColumn appends a categorical string column. A non-nil categories
// argument declares the column's own category order.
func (t *Table) AddStringColumn(name string, values []string, categories []string) error {
	return t.addColumn(&Column{Name: name, Kind: StringColumn, Strings: values, Categories: categories})
}

// SetIndex attaches an explicit row index
func (t *Table) SetIndex(idx sparsity.Index) error {
	if idx.Len() != t.numRows {
		return errors.ShapeError{
			Op:    "set index",
			Left:  sparsity.Shape{Rows: t.numRows, Cols: len(t.columns)},
			Right: sparsity.Shape{Rows: idx.Len(), Cols: len(t.columns)},
		}
	}
	t.idx = idx
	return nil
}

// Index returns the row index, a 0..n-1 range when none was set
func (t *Table) Index() sparsity.Index {
	if t.idx == nil {
		return index.Range(t.numRows)
	}
	return t.idx
}

// HasIndex returns true iff an explicit row index was set
func (t *Table) HasIndex() bool {
	return t.idx != nil
}

// Labels converts a column's values to index labels: string labels for
// categorical columns, float labels for numeric ones
func (c *Column) Labels() []sparsity.Label {
	if c.Kind == StringColumn {
		return sparsity.Strings(c.Strings)
	}
	return sparsity.Floats(c.Floats)
}
