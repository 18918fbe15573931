// Package encode converts categorical columns of a dense table into sparse
// indicator columns, one output column per category value, with optional
// dense passthrough of numeric columns.
package encode

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/frame"
	"github.com/go-sparsity/sparsity/index"
	"github.com/go-sparsity/sparsity/tabular"
)

type specKind uint8

const (
	specExplicit specKind = iota
	specFromDeclared
	specPassthrough
	specFromRef
)

// A CategorySpec declares how one source column expands into output columns
type CategorySpec struct {
	kind   specKind
	values []string
	ref    string
}

// Explicit expands a column into one indicator column per listed category,
// in the listed order
func Explicit(values []string) CategorySpec {
	return CategorySpec{kind: specExplicit, values: values}
}

// FromDeclared expands a column using its own declared category order
func FromDeclared() CategorySpec {
	return CategorySpec{kind: specFromDeclared}
}

// Passthrough appends a numeric column as-is, one dense value per row
func Passthrough() CategorySpec {
	return CategorySpec{kind: specPassthrough}
}

// FromRef expands a column using an externally persisted category list,
// resolved through the Conf's Resolver
func FromRef(ref string) CategorySpec {
	return CategorySpec{kind: specFromRef, ref: ref}
}

// Conf configures one-hot encoding
type Conf struct {
	// Categories maps source column names to their expansion. A nil map
	// encodes every table column: string columns via their declared order,
	// numeric columns as dense passthrough.
	Categories map[string]CategorySpec
	// Order lists source columns in output block order. Must be a
	// permutation of the Categories keys. Defaults to the table's own
	// column order.
	Order []string
	// IndexCol names the column(s) whose values become the output row
	// index. More than one produces a multi-level index. Defaults to the
	// table's own row index.
	IndexCol []string
	// Prefixes names output columns "{column}{Sep}{category}" instead of
	// the bare category value
	Prefixes bool
	// Sep separates column name and category value when Prefixes is
	// active. Defaults to "_".
	Sep string
	// IgnoreCatOrderMismatch lets an explicit category order win over a
	// conflicting declared order instead of failing
	IgnoreCatOrderMismatch bool
	// Resolver resolves FromRef references to category lists. Required
	// when any spec is a FromRef.
	Resolver func(ref string) ([]string, error)
}

// block is one resolved source column ready for expansion
type block struct {
	column      *tabular.Column
	passthrough bool
	categories  []string
	labels      []sparsity.Label
}

func (b *block) width() int {
	if b.passthrough {
		return 1
	}
	return len(b.categories)
}

// SparseOneHot expands the table's categorical columns into a sparse frame
// of indicator columns, block-concatenated in the resolved column order.
func SparseOneHot(t *tabular.Table, conf *Conf) (sparsity.Frame, error) {
	if conf == nil {
		conf = &Conf{}
	}
	sep := conf.Sep
	if sep == "" {
		sep = "_"
	}
	specs := conf.Categories
	indexed := make(map[string]bool, len(conf.IndexCol))
	for _, name := range conf.IndexCol {
		indexed[name] = true
	}
	if specs == nil {
		specs = make(map[string]CategorySpec)
		for _, name := range t.ColumnNames() {
			if indexed[name] {
				continue
			}
			c, err := t.Column(name)
			if err != nil {
				return nil, err
			}
			if c.Kind == tabular.FloatColumn {
				specs[name] = Passthrough()
			} else {
				specs[name] = FromDeclared()
			}
		}
	}
	order, err := resolveOrder(t, specs, conf.Order)
	if err != nil {
		return nil, err
	}

	var errs *multierror.Error
	blocks := make([]*block, 0, len(order))
	for _, name := range order {
		b, err := resolveBlock(t, name, specs[name], conf)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		blocks = append(blocks, b)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	cols, err := outputColumns(blocks, order, conf.Prefixes, sep)
	if err != nil {
		return nil, err
	}
	idx, err := outputIndex(t, conf.IndexCol)
	if err != nil {
		return nil, err
	}
	m, err := expand(t.NumRows(), blocks)
	if err != nil {
		return nil, err
	}
	return frame.Create(m, idx, cols)
}

// resolveOrder settles the source column block order: the explicit Order if
// given, else the table's own column order filtered to the specified columns
func resolveOrder(t *tabular.Table, specs map[string]CategorySpec, order []string) ([]string, error) {
	if order == nil {
		resolved := make([]string, 0, len(specs))
		for _, name := range t.ColumnNames() {
			if _, ok := specs[name]; ok {
				resolved = append(resolved, name)
			}
		}
		if len(resolved) != len(specs) {
			for name := range specs {
				if !t.HasColumn(name) {
					return nil, errors.NotFoundError{Label: sparsity.String(name)}
				}
			}
		}
		return resolved, nil
	}
	if len(order) != len(specs) {
		return nil, errors.ParameterError{Msg: "order must list every specified column exactly once"}
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := specs[name]; !ok || seen[name] {
			return nil, errors.ParameterError{Msg: "order must list every specified column exactly once"}
		}
		seen[name] = true
	}
	return order, nil
}

// resolveBlock validates one source column against its spec and settles its
// category list
func resolveBlock(t *tabular.Table, name string, spec CategorySpec, conf *Conf) (*block, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	switch spec.kind {
	case specPassthrough:
		if c.Kind != tabular.FloatColumn {
			return nil, errors.TypeError{Column: name}
		}
		return &block{column: c, passthrough: true}, nil
	case specFromDeclared:
		cats := c.Categories
		if cats == nil {
			cats = distinctValues(c)
		}
		if err := checkCoverage(c, name, cats); err != nil {
			return nil, err
		}
		return &block{column: c, categories: cats}, nil
	case specFromRef:
		if conf.Resolver == nil {
			return nil, errors.ParameterError{Msg: fmt.Sprintf("category reference %s requires a resolver", spec.ref)}
		}
		cats, err := conf.Resolver(spec.ref)
		if err != nil {
			return nil, err
		}
		return explicitBlock(c, name, cats, conf)
	default:
		return explicitBlock(c, name, spec.values, conf)
	}
}

// explicitBlock reconciles an explicitly given category list with the
// column's own declared order
func explicitBlock(c *tabular.Column, name string, cats []string, conf *Conf) (*block, error) {
	if c.Categories != nil && sameSet(cats, c.Categories) && !sameOrder(cats, c.Categories) {
		if !conf.IgnoreCatOrderMismatch {
			return nil, errors.CategoryOrderError{Column: name}
		}
	}
	if err := checkCoverage(c, name, cats); err != nil {
		return nil, err
	}
	return &block{column: c, categories: cats}, nil
}

func sameSet(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}

func sameOrder(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkCoverage fails when the category list omits a value actually present
// in the data. Empty strings count as missing values and are skipped.
func checkCoverage(c *tabular.Column, name string, cats []string) error {
	listed := make(map[string]bool, len(cats))
	for _, v := range cats {
		listed[v] = true
	}
	var uncovered []string
	seen := make(map[string]bool)
	for _, v := range c.Strings {
		if v == "" || listed[v] || seen[v] {
			continue
		}
		seen[v] = true
		uncovered = append(uncovered, v)
	}
	if len(uncovered) > 0 {
		return errors.CategoryCollisionError{
			Msg: fmt.Sprintf("category list for column %s does not cover observed values %s",
				name, strings.Join(uncovered, ", ")),
		}
	}
	return nil
}

// distinctValues returns a column's distinct non-empty values in order of
// first appearance
func distinctValues(c *tabular.Column) []string {
	seen := make(map[string]bool)
	var values []string
	for _, v := range c.Strings {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// outputColumns builds the output column index and rejects duplicate output
// labels, which can only arise without prefix disambiguation
func outputColumns(blocks []*block, order []string, prefixes bool, sep string) (sparsity.Index, error) {
	seen := make(map[string]bool)
	var labels []sparsity.Label
	for i, b := range blocks {
		names := []string{order[i]}
		if !b.passthrough {
			names = b.categories
			if prefixes {
				names = make([]string, len(b.categories))
				for j, cat := range b.categories {
					names[j] = order[i] + sep + cat
				}
			}
		}
		for _, name := range names {
			if seen[name] {
				return nil, errors.CategoryCollisionError{
					Msg: fmt.Sprintf("duplicate output column %s; use prefixes to disambiguate", name),
				}
			}
			seen[name] = true
			labels = append(labels, sparsity.String(name))
		}
	}
	return index.Create(labels, "")
}

// outputIndex takes the row index from the index columns if given, else the
// table's own row index
func outputIndex(t *tabular.Table, indexCol []string) (sparsity.Index, error) {
	if len(indexCol) == 0 {
		return t.Index(), nil
	}
	if len(indexCol) == 1 {
		c, err := t.Column(indexCol[0])
		if err != nil {
			return nil, err
		}
		return index.Create(c.Labels(), indexCol[0])
	}
	levels := make([][]sparsity.Label, len(indexCol))
	for i, name := range indexCol {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		levels[i] = c.Labels()
	}
	return index.CreateMulti(levels, indexCol)
}

// expand builds the sparse indicator matrix, blocks concatenated in order
func expand(rows int, blocks []*block) (sparsity.Matrix, error) {
	cols := 0
	positions := make([]map[string]int, len(blocks))
	offsets := make([]int, len(blocks))
	for i, b := range blocks {
		offsets[i] = cols
		cols += b.width()
		if !b.passthrough {
			positions[i] = make(map[string]int, len(b.categories))
			for j, cat := range b.categories {
				positions[i][cat] = j
			}
		}
	}
	var values []float64
	var colInd []int
	rowPtr := make([]int, rows+1)
	for r := 0; r < rows; r++ {
		for i, b := range blocks {
			if b.passthrough {
				if v := b.column.Floats[r]; v != 0 {
					values = append(values, v)
					colInd = append(colInd, offsets[i])
				}
				continue
			}
			if j, ok := positions[i][b.column.Strings[r]]; ok {
				values = append(values, 1)
				colInd = append(colInd, offsets[i]+j)
			}
		}
		rowPtr[r+1] = len(values)
	}
	return csr.Create(rows, cols, values, colInd, rowPtr)
}
