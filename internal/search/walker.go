package search

import (
	"context"
	"strings"

	"github.com/TFMV/burrow/internal/metrics"
	"github.com/TFMV/burrow/internal/record"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// walker holds the per-call state shared by every branch of a traversal.
type walker struct {
	ctx    context.Context
	match  func(name string) bool
	opts   Options
	logger *zap.Logger
}

// branch is what a directory contributes to its parent: matching records
// and the failures found below it.
type branch struct {
	records []record.Record
	errs    []error
}

func (b *branch) add(other branch) {
	b.records = append(b.records, other.records...)
	b.errs = append(b.errs, other.errs...)
}

// newWalker applies option defaults. The returned function flushes the
// logger if the walker created it.
func newWalker(ctx context.Context, substring string, opts Options) (*walker, func()) {
	opts = opts.withDefaults()
	cleanup := func() {}
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(opts.LogLevel)
		cleanup = func() { _ = logger.Sync() }
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &walker{
		ctx:    ctx,
		match:  newMatcher(substring, opts.Normalize),
		opts:   opts,
		logger: logger,
	}, cleanup
}

// newMatcher returns a case-sensitive substring test, optionally comparing
// both sides in NFC so decomposed names (as stored by macOS) match.
func newMatcher(substring string, normalize bool) func(string) bool {
	if !normalize {
		return func(name string) bool {
			return strings.Contains(name, substring)
		}
	}
	needle := norm.NFC.String(substring)
	return func(name string) bool {
		return strings.Contains(norm.NFC.String(name), needle)
	}
}

// readDir lists dir without following symlinks. Failures come back as
// *EnumerationError, or *TraversalError when the context is done.
func (w *walker) readDir(dir string) (godirwalk.Dirents, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, &TraversalError{Path: dir, Err: err}
	}
	ents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		metrics.RecordEnumerationError()
		w.logger.Warn("cannot list directory", zap.String("path", dir), zap.Error(err))
		return nil, &EnumerationError{Path: dir, Err: err}
	}
	return ents, nil
}

// entry converts a directory entry of dir into a Record.
func (w *walker) entry(dir string, de *godirwalk.Dirent) record.Record {
	return record.FromEntry(dir, de.Name(), de.IsDir(), w.opts.Icons)
}

// sort orders records in place with the configured threshold.
func (w *walker) sort(records []record.Record) {
	record.SortThreshold(records, w.opts.SortThreshold)
}

// finish sorts the combined result of a whole call and folds branch
// failures into a *PartialError.
func (w *walker) finish(b branch) ([]record.Record, error) {
	if b.records == nil {
		b.records = []record.Record{}
	}
	w.sort(b.records)
	if len(b.errs) == 0 {
		return b.records, nil
	}
	return b.records, &PartialError{Failures: b.errs}
}
