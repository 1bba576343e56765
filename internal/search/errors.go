package search

import (
	"errors"
	"fmt"
	"strings"
)

// EnumerationError reports a directory that could not be listed. It
// unwraps to the underlying filesystem error, so errors.Is works with
// fs.ErrNotExist and fs.ErrPermission.
type EnumerationError struct {
	Path string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate %q: %v", e.Path, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// TraversalError reports a sub-search that failed for a reason other than
// listing a directory: it panicked, could not be scheduled, or was
// canceled.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// PartialError is returned next to a complete, sorted result when one or
// more branches of the tree failed. The failed branches contributed no
// records; everything else is present.
type PartialError struct {
	Failures []error
}

func (e *PartialError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, err := range e.Failures {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d branch(es) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *PartialError) Unwrap() []error { return e.Failures }

// IsPartial reports whether err only describes failed branches, meaning
// the accompanying records are usable.
func IsPartial(err error) bool {
	var partial *PartialError
	return errors.As(err, &partial)
}
