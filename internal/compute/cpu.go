package compute

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/gravsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the body count below which the serial loop is used.
const DefaultParallelThreshold = 64

// CPUBackend schedules the force pass on goroutines. Private accumulators are
// reused between calls, so a backend must not be shared by concurrent runs.
type CPUBackend struct {
	workers   int
	threshold int
	local     []dynamo.Forces
}

// NewCPUBackend returns a backend with the given worker count; values below 1
// select runtime.NumCPU().
func NewCPUBackend(workers int) *CPUBackend {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{
		workers:   workers,
		threshold: DefaultParallelThreshold,
	}
}

// NewSerialBackend returns the single-threaded reference backend.
func NewSerialBackend() *CPUBackend {
	return NewCPUBackend(1)
}

func (c *CPUBackend) Name() string {
	if c.workers == 1 {
		return "cpu"
	}
	return fmt.Sprintf("cpu x%d", c.workers)
}

func (c *CPUBackend) Workers() int { return c.workers }

// SetThreshold changes the serial fallback size. Used by tests to force the
// parallel path on small systems.
func (c *CPUBackend) SetThreshold(n int) {
	c.threshold = n
}

func (c *CPUBackend) Forces(ctx context.Context, bodies dynamo.Bodies, acc dynamo.Forces, k RowKernel) error {
	n := len(bodies)
	if len(acc) != n {
		return fmt.Errorf("%w: %d bodies, %d forces", dynamo.ErrDimensionMismatch, n, len(acc))
	}
	acc.Reset()

	if n < 2 {
		return nil
	}

	if c.workers == 1 || n < c.threshold {
		return c.serial(ctx, bodies, acc, k)
	}
	return c.parallel(ctx, bodies, acc, k)
}

func (c *CPUBackend) serial(ctx context.Context, bodies dynamo.Bodies, acc dynamo.Forces, k RowKernel) error {
	for i := range bodies {
		if err := ctx.Err(); err != nil {
			return err
		}
		k.AccumulateRow(bodies, i, acc)
	}
	return nil
}

func (c *CPUBackend) parallel(ctx context.Context, bodies dynamo.Bodies, acc dynamo.Forces, k RowKernel) error {
	n := len(bodies)
	ranges := Partition(n, c.workers)
	c.ensureScratch(len(ranges), n)

	g, gctx := errgroup.WithContext(ctx)
	for w, r := range ranges {
		local := c.local[w]
		local.Reset()

		g.Go(func() error {
			for i := r.Start; i < r.End; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				k.AccumulateRow(bodies, i, local)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// merge in worker order so the sum does not depend on goroutine scheduling
	for w := range ranges {
		local := c.local[w]
		for i := range acc {
			acc[i] = acc[i].Add(local[i])
		}
	}

	return nil
}

func (c *CPUBackend) ensureScratch(workers, n int) {
	if len(c.local) < workers {
		c.local = append(c.local, make([]dynamo.Forces, workers-len(c.local))...)
	}
	for w := 0; w < workers; w++ {
		if len(c.local[w]) != n {
			c.local[w] = make(dynamo.Forces, n)
		}
	}
}
