package search

import (
	"context"

	"github.com/TFMV/burrow/internal/record"
	"go.uber.org/zap"
)

// ListDirectory returns the immediate children of dir, sorted, without
// filtering or recursion.
func ListDirectory(ctx context.Context, dir string, opts Options) ([]record.Record, error) {
	w, cleanup := newWalker(ctx, "", opts)
	defer cleanup()

	ents, err := w.readDir(dir)
	if err != nil {
		return nil, err
	}

	records := make([]record.Record, 0, len(ents))
	for _, de := range ents {
		records = append(records, w.entry(dir, de))
	}
	w.sort(records)

	w.logger.Debug("listed directory", zap.String("path", dir), zap.Int("entries", len(records)))
	return records, nil
}
