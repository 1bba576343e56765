package search

import (
	"context"
	"fmt"
	"time"

	"github.com/TFMV/burrow/internal/record"
	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits for the tree to go quiet before
// searching again.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Strategy Strategy      // Traversal used for every search
	Debounce time.Duration // Quiet period before re-searching (default DefaultDebounce)
	Search   Options
}

// WatchResult is one complete search result produced by Watch.
type WatchResult struct {
	Records []record.Record // Full sorted result, never a delta
	Trigger string          // Path of the last change before this search, empty for the first
	Err     error           // Search or watcher error
}

// WatchHandler processes each result. Returning an error stops Watch.
type WatchHandler func(ctx context.Context, result WatchResult) error

// Watch searches root once, then again each time the tree changes, and
// hands every complete result to handler. Nothing is carried over between
// searches. It returns when ctx is done or handler fails.
func Watch(ctx context.Context, root, substring string, opts WatchOptions, handler WatchHandler) error {
	if handler == nil {
		return fmt.Errorf("watch: nil handler")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Search.Logger
	if logger == nil {
		logger = NewLogger(opts.Search.LogLevel)
		defer logger.Sync()
		opts.Search.Logger = logger
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root, logger); err != nil {
		return fmt.Errorf("error watching directory %s: %w", root, err)
	}

	run := func(trigger string) error {
		records, err := Run(ctx, opts.Strategy, substring, root, opts.Search)
		return handler(ctx, WatchResult{Records: records, Trigger: trigger, Err: err})
	}
	if err := run(""); err != nil {
		return err
	}

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var trigger string
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories must be watched before their contents change.
				if err := watchTree(watcher, event.Name, logger); err != nil {
					logger.Debug("not watching new entry", zap.String("path", event.Name), zap.Error(err))
				}
			}
			trigger = event.Name
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if herr := handler(ctx, WatchResult{Err: fmt.Errorf("watcher error: %w", err)}); herr != nil {
				return herr
			}

		case <-timer.C:
			logger.Debug("tree changed, searching again", zap.String("trigger", trigger))
			if err := run(trigger); err != nil {
				return err
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// watchTree adds dir and every directory below it to watcher. A path that
// is not a directory is ignored.
func watchTree(watcher *fsnotify.Watcher, dir string, logger *zap.Logger) error {
	return godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted:          true,
		AllowNonDirectory: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			return watcher.Add(path)
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
			return godirwalk.SkipNode
		},
	})
}
