// Package worker runs concept extraction over many documents concurrently.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work, typically a single document
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job produced
type Result interface {
	Err() error
}

// Pool runs submitted jobs on a fixed number of goroutines.
//
// Usage: Start, Submit from one goroutine, Close when done submitting, and
// drain with Results from another. Canceling the parent context stops the
// workers and unblocks both sides.
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	closeJobs    sync.Once
	closeResults sync.Once
}

// NewPool creates a pool of workers bound to ctx. A non-positive worker
// count means one worker.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It reports false, without blocking further, once the
// pool's context is done.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Close tells the workers no more jobs are coming
func (p *Pool) Close() {
	p.closeJobs.Do(func() { close(p.jobs) })
}

// Results drains results until every worker has exited, then releases the
// pool's context. Results arrive in completion order.
func (p *Pool) Results() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults.Do(func() { close(p.results) })
	}()

	var out []Result
	for res := range p.results {
		out = append(out, res)
	}
	p.cancel()
	return out
}
