package search

import (
	"fmt"
	"runtime"

	"github.com/TFMV/burrow/internal/record"
	"go.uber.org/zap"
)

// DefaultPoolSize is the number of workers Search2 starts per call.
const DefaultPoolSize = 4

// Strategy selects a traversal implementation.
type Strategy string

const (
	StrategyParallel Strategy = "parallel" // data-parallel map over each directory
	StrategyPool     Strategy = "pool"     // fan-out through a worker pool
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyParallel, "":
		return StrategyParallel, nil
	case StrategyPool:
		return StrategyPool, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, StrategyParallel, StrategyPool)
}

// Options configures searches and listings. The zero value is usable.
type Options struct {
	Icons         record.IconTable // Icon lookup; zero value means record.DefaultIcons()
	PoolSize      int              // Workers per Search2 call (default DefaultPoolSize)
	Parallelism   int              // Goroutines per directory for Search (default GOMAXPROCS)
	SortThreshold int              // Merge sort fork threshold (default record.DefaultSortThreshold, negative forks always)
	Normalize     bool             // Compare names in Unicode NFC
	Logger        *zap.Logger
	LogLevel      LogLevel
}

func (o Options) withDefaults() Options {
	if o.Icons.ByExt == nil && o.Icons.Dir == "" && o.Icons.Default == "" {
		o.Icons = record.DefaultIcons()
	}
	if o.PoolSize == 0 {
		o.PoolSize = DefaultPoolSize
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.SortThreshold == 0 {
		o.SortThreshold = record.DefaultSortThreshold
	}
	return o
}
