package sim

import (
	"context"

	"github.com/san-kum/gravsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Job is one independent run of an Ensemble.
type Job struct {
	Name       string
	Forces     dynamo.ForceEngine
	Integrator dynamo.Integrator
	Bodies     dynamo.Bodies
	Config     dynamo.Config
}

// Ensemble runs independent simulations concurrently. Jobs must not share a
// force engine, since backends keep per-run scratch buffers.
type Ensemble struct {
	jobs []Job
	opts []Option
}

func NewEnsemble(jobs []Job, opts ...Option) *Ensemble {
	return &Ensemble{jobs: jobs, opts: opts}
}

// Run returns results in job order. The first failing job cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range e.jobs {
		g.Go(func() error {
			s := New(job.Forces, job.Integrator, e.opts...)
			if err := s.Load(job.Bodies, job.Config); err != nil {
				return err
			}
			res, err := s.Run(gctx)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
