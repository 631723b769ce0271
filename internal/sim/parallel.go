package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job builds and runs one simulation of a batch. Build is called inside the
// worker so controllers, which carry state, are never shared.
type Job struct {
	Name  string
	Build func() (*Simulator, error)
	X0    State
	Cfg   Config
}

// Batch runs independent jobs concurrently.
type Batch struct {
	jobs []Job
	// Workers caps concurrency; zero means one goroutine per job.
	Workers int
}

func NewBatch(jobs ...Job) *Batch {
	return &Batch{jobs: jobs}
}

func (b *Batch) Add(j Job) { b.jobs = append(b.jobs, j) }

func (b *Batch) Len() int { return len(b.jobs) }

// Run returns one result per job, in job order. The first failure cancels
// the remaining jobs.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if b.Workers > 0 {
		g.SetLimit(b.Workers)
	}
	for i, job := range b.jobs {
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			r, err := s.Run(ctx, job.X0, job.Cfg)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
