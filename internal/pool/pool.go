// Package pool provides a fixed-size worker pool in which every worker owns
// a private job queue and new jobs go to the least loaded worker.
//
// Workers pop their own queue newest-first, which keeps recursive fan-out
// depth-first. There is no stealing between queues: a job must never block
// waiting for another job submitted to the same pool, or the pool can
// deadlock once every worker is waiting.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/TFMV/burrow/internal/metrics"
	"go.uber.org/zap"
)

// Job is a deferred unit of work. A returned error is reported to the
// pool's error handler and never stops the worker.
type Job func() error

var (
	// ErrInvalidSize is returned by New for a size of one or less.
	ErrInvalidSize = errors.New("pool: size must be greater than one")

	// ErrStopped is returned by Execute once Stop has been called.
	ErrStopped = errors.New("pool: stopped")
)

// ErrorHandler receives the error of a failed job along with the index of
// the worker that ran it.
type ErrorHandler func(worker int, err error)

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for worker lifecycle and job failures.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithErrorHandler replaces the default handler, which logs failures.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(p *Pool) {
		if fn != nil {
			p.onError = fn
		}
	}
}

// Pool is a fixed set of long-lived workers with per-worker queues.
type Pool struct {
	queues  []*jobQueue
	loads   []atomic.Int64 // queued jobs per worker, read without locks
	logger  *zap.Logger
	onError ErrorHandler

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  atomic.Bool
}

// New starts size workers, each with an empty queue.
func New(size int, opts ...Option) (*Pool, error) {
	if size <= 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	p := &Pool{
		queues: make([]*jobQueue, size),
		loads:  make([]atomic.Int64, size),
		logger: zap.NewNop(),
	}
	p.onError = func(worker int, err error) {
		p.logger.Error("job failed", zap.Int("worker", worker), zap.Error(err))
	}
	for _, opt := range opts {
		opt(p)
	}

	for id := range p.queues {
		p.queues[id] = newJobQueue(id)
	}
	p.wg.Add(size)
	for _, q := range p.queues {
		go p.work(q)
	}

	p.logger.Debug("pool started", zap.Int("workers", size))
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.queues)
}

// Loads returns a snapshot of the number of queued jobs per worker.
func (p *Pool) Loads() []int64 {
	out := make([]int64, len(p.loads))
	for i := range p.loads {
		out[i] = p.loads[i].Load()
	}
	return out
}

// Execute queues job on the least loaded worker and returns without
// waiting for it to run. Results must be delivered by the job itself.
//
// The load read and the enqueue are not atomic together, so concurrent
// submitters may briefly pile onto the same worker.
func (p *Pool) Execute(job Job) error {
	if job == nil {
		return errors.New("pool: nil job")
	}
	if p.stopped.Load() {
		return ErrStopped
	}

	q := p.queues[p.leastLoaded()]
	q.mu.Lock()
	if q.stopping {
		q.mu.Unlock()
		return ErrStopped
	}
	q.push(job)
	p.loads[q.id].Add(1)
	q.mu.Unlock()
	q.cond.Signal()

	metrics.RecordJobSubmitted(q.id)
	return nil
}

// leastLoaded returns the index of the worker with the fewest queued jobs,
// preferring the lowest index on ties.
func (p *Pool) leastLoaded() int {
	best := 0
	bestLoad := p.loads[0].Load()
	for i := 1; i < len(p.loads); i++ {
		if l := p.loads[i].Load(); l < bestLoad {
			best, bestLoad = i, l
		}
	}
	return best
}

// Stop rejects new jobs, lets every worker drain the jobs already queued
// and waits for all workers to exit. It is safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		for _, q := range p.queues {
			q.mu.Lock()
			q.stopping = true
			q.mu.Unlock()
			q.cond.Broadcast()
		}
		p.wg.Wait()
		p.logger.Debug("pool stopped", zap.Int("workers", len(p.queues)))
	})
}

// work is the loop of a single worker.
func (p *Pool) work(q *jobQueue) {
	defer p.wg.Done()

	for {
		q.mu.Lock()
		for q.len() == 0 && !q.stopping {
			q.cond.Wait()
		}
		job, ok := q.pop()
		if !ok {
			// Stopping and drained.
			q.mu.Unlock()
			return
		}
		p.loads[q.id].Add(-1)
		q.mu.Unlock()

		metrics.RecordJobStarted(q.id)
		err := p.run(job)
		metrics.RecordJobDone(err != nil)
		if err != nil {
			p.onError(q.id, err)
		}
	}
}

// run executes job, turning a panic into an error.
func (p *Pool) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pool: job panicked: %v", r)
		}
	}()
	return job()
}
