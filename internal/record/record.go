// Package record defines the value produced for every filesystem entry a
// search visits, its ordering, and the parallel merge sort used to order
// result lists.
package record

import "strings"

// Record describes one filesystem entry.
// Records are values: built once per entry and never mutated afterwards.
type Record struct {
	Name        string `json:"name"`         // Base name without the final extension
	Path        string `json:"path"`         // Full path to the entry
	IsDirectory bool   `json:"is_directory"` // Whether the entry is a directory
	Icon        string `json:"icon"`         // Opaque icon resource tag
	Ext         string `json:"ext"`          // Extension without the dot
}

// Compare orders directories before files and, within the same kind,
// names ascending (byte-wise, case-sensitive). It returns -1, 0 or +1.
func Compare(a, b Record) int {
	switch {
	case a.IsDirectory && !b.IsDirectory:
		return -1
	case !a.IsDirectory && b.IsDirectory:
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

// Less reports whether a sorts before b.
func Less(a, b Record) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b are of the same kind. Only the directory
// flag takes part; two files with different names are Equal even though
// Compare orders them.
func (r Record) Equal(other Record) bool {
	return r.IsDirectory == other.IsDirectory
}
