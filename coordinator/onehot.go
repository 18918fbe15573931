package coordinator

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/encode"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/frame"
	"github.com/go-sparsity/sparsity/tabular"
)

// OneHotEncodePartitions one-hot encodes a table per partition in parallel.
// The combined meta is derived from the category specification and the first
// table's column declarations alone, without touching partition data, so
// schema planning stays cheap. Columns whose categories can only be
// discovered by scanning data cannot be planned this way.
func OneHotEncodePartitions(ctx context.Context, tables []*tabular.Table, conf *encode.Conf) (*Partitioned, error) {
	if len(tables) == 0 {
		return nil, errors.ParameterError{Msg: "one-hot encoding requires at least one partition table"}
	}
	metaTable, err := emptySchemaTable(tables[0])
	if err != nil {
		return nil, err
	}
	meta, err := encode.SparseOneHot(metaTable, conf)
	if err != nil {
		return nil, fmt.Errorf("category specification failed schema planning: %w", err)
	}
	parts := make([]sparsity.Frame, len(tables))
	partErrs := make([]error, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i := range tables {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := encode.SparseOneHot(tables[i], conf)
			if err != nil {
				partErrs[i] = err
				return err
			}
			parts[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var errs *multierror.Error
		for i, e := range partErrs {
			if e != nil {
				errs = multierror.Append(errs, fmt.Errorf("partition %d: %w", i, e))
			}
		}
		if collected := errs.ErrorOrNil(); collected != nil {
			return nil, collected
		}
		return nil, err
	}
	for _, part := range parts {
		if !part.Columns().Equal(meta.Columns()) {
			return nil, errors.ShapeError{Op: "partition", Left: meta.Shape(), Right: part.Shape()}
		}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Partitioned{id: id.String(), parts: parts, meta: frame.Meta(meta)}, nil
}

// emptySchemaTable rebuilds a table's column declarations at zero rows:
// names, kinds and declared category orders survive, values do not
func emptySchemaTable(t *tabular.Table) (*tabular.Table, error) {
	empty := tabular.CreateTable(0)
	for _, name := range t.ColumnNames() {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind == tabular.FloatColumn {
			err = empty.AddFloatColumn(name, nil)
		} else {
			err = empty.AddStringColumn(name, nil, c.Categories)
		}
		if err != nil {
			return nil, err
		}
	}
	return empty, nil
}
