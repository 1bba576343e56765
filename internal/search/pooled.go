package search

import (
	"context"
	"fmt"
	"time"

	"github.com/TFMV/burrow/internal/metrics"
	"github.com/TFMV/burrow/internal/pool"
	"github.com/TFMV/burrow/internal/record"
	"go.uber.org/zap"
)

// Search2 has the same contract as Search but fans the root's
// sub-directories out to a worker pool of opts.PoolSize workers created for
// this call and stopped before it returns. Each job searches its subtree
// with the data-parallel traversal and reports back exactly once, even when
// it fails, so the caller's wait always ends.
func Search2(ctx context.Context, substring, root string, opts Options) ([]record.Record, error) {
	w, cleanup := newWalker(ctx, substring, opts)
	defer cleanup()

	start := time.Now()
	w.logger.Debug("starting search",
		zap.String("strategy", string(StrategyPool)),
		zap.String("root", root),
		zap.String("substring", substring),
		zap.Int("workers", w.opts.PoolSize),
	)

	p, err := pool.New(w.opts.PoolSize, pool.WithLogger(w.logger))
	if err != nil {
		return nil, err
	}
	defer p.Stop()

	ents, err := w.readDir(root)
	if err != nil {
		return nil, err
	}

	// Buffered for every possible job so a sender never blocks, even if
	// this goroutine stops receiving.
	results := make(chan slot, len(ents))
	pending := 0

	// Each root entry owns a slot. Slots are combined in entry order, the
	// same way scan combines parts, so completion order never shows.
	slots := make([]branch, len(ents))
	own := make([]record.Record, len(ents))
	matched := make([]bool, len(ents))
	for i, de := range ents {
		r := w.entry(root, de)
		if r.IsDirectory {
			if err := p.Execute(w.subSearch(i, r.Path, results)); err != nil {
				slots[i].errs = append(slots[i].errs, &TraversalError{Path: r.Path, Err: err})
			} else {
				pending++
			}
		}
		own[i], matched[i] = r, w.match(r.Name)
	}

	for ; pending > 0; pending-- {
		res := <-results
		slots[res.index] = res.branch
	}

	var local branch
	for i := range slots {
		local.add(slots[i])
		if matched[i] {
			local.records = append(local.records, own[i])
		}
	}

	records, err := w.finish(local)

	elapsed := time.Since(start)
	metrics.RecordSearch(string(StrategyPool), elapsed, len(records))
	w.logger.Debug("search complete",
		zap.String("strategy", string(StrategyPool)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	return records, err
}

// slot is the result of the sub-search for the root entry at index.
type slot struct {
	index int
	branch
}

// subSearch returns a pool job that searches dir and sends exactly one
// slot for index on results, including when the search panics.
func (w *walker) subSearch(index int, dir string, results chan<- slot) pool.Job {
	return func() (err error) {
		var b branch
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				b = branch{errs: []error{&TraversalError{Path: dir, Err: err}}}
			}
			results <- slot{index: index, branch: b}
		}()
		b = w.descend(dir)
		return nil
	}
}
