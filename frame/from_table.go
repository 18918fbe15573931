package frame

import (
	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/index"
	"github.com/go-sparsity/sparsity/logging"
	"github.com/go-sparsity/sparsity/tabular"
)

// FromTable builds a Frame from the numeric columns of a dense Table. All
// of the table's columns must be numeric. A nil idx adopts the table's own
// row index; passing one explicitly shadows it. A nil cols labels columns
// by the table's column names.
func FromTable(t *tabular.Table, idx sparsity.Index, cols sparsity.Index) (sparsity.Frame, error) {
	names := t.ColumnNames()
	columns := make([]*tabular.Column, len(names))
	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != tabular.FloatColumn {
			return nil, errors.TypeError{Column: name}
		}
		columns[i] = c
	}
	if idx == nil {
		idx = t.Index()
	} else if t.HasIndex() {
		logging.Warnf("explicit index shadows the table's own row index")
	}
	if cols == nil {
		var err error
		cols, err = index.Create(sparsity.Strings(names), "")
		if err != nil {
			return nil, err
		}
	}
	rows := make([][]float64, t.NumRows())
	for i := range rows {
		row := make([]float64, len(columns))
		for j, c := range columns {
			row[j] = c.Floats[i]
		}
		rows[i] = row
	}
	if len(rows) == 0 {
		return Create(csr.Zeros(0, len(columns)), idx, cols)
	}
	m, err := csr.FromRows(rows)
	if err != nil {
		return nil, err
	}
	return Create(m, idx, cols)
}
