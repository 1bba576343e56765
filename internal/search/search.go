// Package search finds filesystem entries whose name contains a substring,
// anywhere below a root directory, and returns them as one sorted list.
//
// Two interchangeable traversals are provided. Search maps over each
// directory's children with a bounded set of goroutines. Search2 fans
// sub-directories of the root out to a worker pool created for the call.
// Both return the same records in the same order.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/TFMV/burrow/internal/metrics"
	"github.com/TFMV/burrow/internal/record"
	"github.com/karrick/godirwalk"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// Search returns every entry below root whose name contains substring,
// sorted directories first and then by name. Children of each directory are
// processed in parallel; sub-directories are searched inside those tasks.
//
// If root cannot be listed the error is returned with no records. Failures
// deeper in the tree produce a *PartialError next to the records of every
// branch that succeeded.
func Search(ctx context.Context, substring, root string, opts Options) ([]record.Record, error) {
	w, cleanup := newWalker(ctx, substring, opts)
	defer cleanup()

	start := time.Now()
	w.logger.Debug("starting search",
		zap.String("strategy", string(StrategyParallel)),
		zap.String("root", root),
		zap.String("substring", substring),
		zap.Int("parallelism", w.opts.Parallelism),
	)

	ents, err := w.readDir(root)
	if err != nil {
		return nil, err
	}
	records, err := w.finish(w.scan(root, ents))

	elapsed := time.Since(start)
	metrics.RecordSearch(string(StrategyParallel), elapsed, len(records))
	w.logger.Debug("search complete",
		zap.String("strategy", string(StrategyParallel)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	return records, err
}

// descend lists dir and scans it. A listing failure becomes the branch's
// only error.
func (w *walker) descend(dir string) branch {
	ents, err := w.readDir(dir)
	if err != nil {
		return branch{errs: []error{err}}
	}
	return w.scan(dir, ents)
}

// scan processes the children of dir in parallel and returns their sorted
// union. Parts are combined in entry order, so ties sort the same way on
// every run.
func (w *walker) scan(dir string, ents godirwalk.Dirents) branch {
	mapper := iter.Mapper[*godirwalk.Dirent, branch]{MaxGoroutines: w.opts.Parallelism}
	parts := mapper.Map(ents, func(de **godirwalk.Dirent) branch {
		return w.child(dir, *de)
	})

	var out branch
	for _, part := range parts {
		out.add(part)
	}
	w.sort(out.records)
	return out
}

// child returns what one entry of dir contributes: the matches below it,
// then the entry itself if it matches. A panic is reported as a
// *TraversalError for the entry.
func (w *walker) child(dir string, de *godirwalk.Dirent) (b branch) {
	r := w.entry(dir, de)
	defer func() {
		if p := recover(); p != nil {
			b = branch{errs: []error{&TraversalError{Path: r.Path, Err: fmt.Errorf("panic: %v", p)}}}
		}
	}()
	if r.IsDirectory {
		b = w.descend(r.Path)
	}
	if w.match(r.Name) {
		b.records = append(b.records, r)
	}
	return b
}

// Run dispatches to the traversal named by strategy.
func Run(ctx context.Context, strategy Strategy, substring, root string, opts Options) ([]record.Record, error) {
	if strategy == StrategyPool {
		return Search2(ctx, substring, root, opts)
	}
	return Search(ctx, substring, root, opts)
}
