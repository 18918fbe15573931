// Package coordinator distributes frame operations over an ordered set of
// partitions. Partitions share no state, so per-partition work runs in
// parallel and results reduce through the frame primitives themselves.
package coordinator

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/frame"
	"github.com/go-sparsity/sparsity/logging"
)

// A Partitioned is an ordered set of frames with identical columns, an
// optional ascending list of partition boundary labels, and a zero-row meta
// frame describing the shared schema
type Partitioned struct {
	id        string
	parts     []sparsity.Frame
	divisions []sparsity.Label
	meta      sparsity.Frame
}

// Create builds a Partitioned from ordered partitions. All partitions must
// share one column index. Divisions, when given, hold one boundary label per
// partition edge: len(parts)+1 entries.
func Create(parts []sparsity.Frame, divisions []sparsity.Label) (*Partitioned, error) {
	if len(parts) == 0 {
		return nil, errors.ParameterError{Msg: "a partitioned frame requires at least one partition"}
	}
	for _, p := range parts[1:] {
		if !p.Columns().Equal(parts[0].Columns()) {
			return nil, errors.ShapeError{Op: "partition", Left: parts[0].Shape(), Right: p.Shape()}
		}
	}
	if divisions != nil && len(divisions) != len(parts)+1 {
		return nil, errors.ParameterError{
			Msg: fmt.Sprintf("expected %d division boundaries, got %d", len(parts)+1, len(divisions)),
		}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Partitioned{
		id:        id.String(),
		parts:     parts,
		divisions: divisions,
		meta:      frame.Meta(parts[0]),
	}, nil
}

// ID returns this Partitioned's unique identity
func (p *Partitioned) ID() string {
	return p.id
}

// NumPartitions returns the number of partitions
func (p *Partitioned) NumPartitions() int {
	return len(p.parts)
}

// Partition returns one partition by position
func (p *Partitioned) Partition(i int) (sparsity.Frame, error) {
	if i < 0 || i >= len(p.parts) {
		return nil, errors.BoundsError{Position: i, Length: len(p.parts)}
	}
	return p.parts[i], nil
}

// Divisions returns the partition boundary labels, nil when unknown
func (p *Partitioned) Divisions() []sparsity.Label {
	return p.divisions
}

// Meta returns the zero-row planning frame sharing this Partitioned's schema
func (p *Partitioned) Meta() sparsity.Frame {
	return p.meta
}

// MapPartitions applies an operation to every partition in parallel. The
// operation is first applied to the zero-row meta, planning the result
// schema; a meta failure aborts before any partition runs. Per-partition
// failures are collected and reported together.
func (p *Partitioned) MapPartitions(ctx context.Context, fn func(sparsity.Frame) (sparsity.Frame, error)) (*Partitioned, error) {
	newMeta, err := fn(p.meta)
	if err != nil {
		return nil, fmt.Errorf("operation failed on zero-row meta: %w", err)
	}
	logging.Logf(logging.InfoLevel, "mapping %d partitions of %s", len(p.parts), p.id)
	mapped := make([]sparsity.Frame, len(p.parts))
	partErrs := make([]error, len(p.parts))
	g, ctx := errgroup.WithContext(ctx)
	for i := range p.parts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := fn(p.parts[i])
			if err != nil {
				partErrs[i] = err
				return err
			}
			mapped[i] = res
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
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Partitioned{
		id:        id.String(),
		parts:     mapped,
		divisions: p.divisions,
		meta:      newMeta,
	}, nil
}

// Reduce row-stacks all partitions into one frame, preserving partition
// boundary order
func (p *Partitioned) Reduce() (sparsity.Frame, error) {
	return frame.VStack(p.parts)
}

// GroupbySum groups by the row index within each partition in parallel,
// then reduces the per-partition sums into one global grouping
func (p *Partitioned) GroupbySum(ctx context.Context) (sparsity.Frame, error) {
	mapped, err := p.MapPartitions(ctx, func(f sparsity.Frame) (sparsity.Frame, error) {
		return f.GroupbySum(nil)
	})
	if err != nil {
		return nil, err
	}
	combined, err := mapped.Reduce()
	if err != nil {
		return nil, err
	}
	return combined.GroupbySum(nil)
}
