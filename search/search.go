// Package search finds files and directories whose name contains a
// substring, traversing the tree in parallel.
//
// Two strategies produce the same result: Search walks every directory
// with a bounded set of goroutines, and Search2 fans the top-level
// subdirectories out to a small worker pool. Results are ordered
// directories first, then by name.
package search

import (
	"context"

	"github.com/TFMV/burrow/internal/record"
	internal "github.com/TFMV/burrow/internal/search"
)

// Re-export the types callers need
type (
	// Record describes one matched file or directory.
	Record = record.Record

	// IconTable maps extensions to icon identifiers.
	IconTable = record.IconTable

	// Options configures a search.
	Options = internal.Options

	// Strategy selects the traversal.
	Strategy = internal.Strategy

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// EnumerationError reports a directory that could not be listed.
	EnumerationError = internal.EnumerationError

	// TraversalError reports a subtree that could not be searched.
	TraversalError = internal.TraversalError

	// PartialError carries the branch failures of an otherwise complete result.
	PartialError = internal.PartialError

	WatchOptions = internal.WatchOptions
	WatchResult  = internal.WatchResult
	WatchHandler = internal.WatchHandler
)

const (
	StrategyParallel = internal.StrategyParallel
	StrategyPool     = internal.StrategyPool

	DefaultPoolSize = internal.DefaultPoolSize

	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug
)

// Search finds entries below root whose name contains substring.
func Search(ctx context.Context, substring, root string, opts Options) ([]Record, error) {
	return internal.Search(ctx, substring, root, opts)
}

// Search2 finds the same entries as Search using a worker pool of
// opts.PoolSize workers.
func Search2(ctx context.Context, substring, root string, opts Options) ([]Record, error) {
	return internal.Search2(ctx, substring, root, opts)
}

// Run dispatches to Search or Search2.
func Run(ctx context.Context, strategy Strategy, substring, root string, opts Options) ([]Record, error) {
	return internal.Run(ctx, strategy, substring, root, opts)
}

// ListDirectory returns the sorted entries of dir without descending.
func ListDirectory(ctx context.Context, dir string, opts Options) ([]Record, error) {
	return internal.ListDirectory(ctx, dir, opts)
}

// Watch re-runs a search every time the tree below root changes.
func Watch(ctx context.Context, root, substring string, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, substring, opts, handler)
}

// Sort orders records directories first, then by name.
func Sort(records []Record) {
	record.Sort(records)
}

// DefaultIcons returns the built-in icon table.
func DefaultIcons() IconTable {
	return record.DefaultIcons()
}

// IsPartial reports whether err only describes failed branches.
func IsPartial(err error) bool {
	return internal.IsPartial(err)
}
