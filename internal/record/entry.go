package record

import (
	"path/filepath"
	"strings"
)

// SplitName splits a base name into its stem and extension the way the
// desktop front-end expects: the extension follows the last dot, and a
// leading dot alone does not start an extension (".bashrc" has none).
func SplitName(base string) (stem, ext string, hasExt bool) {
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return base, "", false
	}
	return base[:idx], base[idx+1:], true
}

// FromEntry builds the Record for the entry called base inside dir.
//
// Name is the stem. Ext is the extension, the stem itself for files
// without one, or "dir" for directories without one.
func FromEntry(dir, base string, isDir bool, icons IconTable) Record {
	stem, ext, hasExt := SplitName(base)
	if !hasExt {
		if isDir {
			ext = DirIconKey
		} else {
			ext = stem
		}
	}
	return Record{
		Name:        stem,
		Path:        filepath.Join(dir, base),
		IsDirectory: isDir,
		Icon:        icons.Lookup(ext, isDir),
		Ext:         ext,
	}
}
