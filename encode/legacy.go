package encode

import (
	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/logging"
	"github.com/go-sparsity/sparsity/tabular"
)

// SparseOneHotColumn is the deprecated single-column calling convention:
// one source column, a positional category list and an optional index
// column. Use SparseOneHot with a Conf instead.
func SparseOneHotColumn(t *tabular.Table, column string, categories []string, indexCol ...string) (sparsity.Frame, error) {
	logging.Warnf("the positional one-hot interface is deprecated; pass a category specification instead")
	var spec CategorySpec
	if categories == nil {
		spec = FromDeclared()
	} else {
		spec = Explicit(categories)
	}
	return SparseOneHot(t, &Conf{
		Categories: map[string]CategorySpec{column: spec},
		IndexCol:   indexCol,
	})
}
