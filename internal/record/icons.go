package record

import "strings"

// DirIconKey is the reserved ByExt key consulted for directories when
// IconTable.Dir is empty.
const DirIconKey = "dir"

// Icon resource tags used by DefaultIcons.
const (
	FileIcon   = "/src-tauri/icons/icons8-file-24.png"
	FolderIcon = "/src-tauri/icons/icons8-folder-24.png"
)

// IconTable maps lowercase extensions to icon resource tags.
type IconTable struct {
	Dir     string            // Icon for directories
	Default string            // Icon for unrecognized extensions
	ByExt   map[string]string // Lowercase extension (no dot) to icon
}

// DefaultIcons returns the built-in table used when no configuration
// overrides it.
func DefaultIcons() IconTable {
	return IconTable{
		Dir:     FolderIcon,
		Default: FileIcon,
		ByExt: map[string]string{
			"txt": FileIcon,
			"jpg": FileIcon,
			"pdf": FileIcon,
		},
	}
}

// Lookup resolves the icon for an entry with the given extension.
func (t IconTable) Lookup(ext string, isDir bool) string {
	if isDir {
		if t.Dir != "" {
			return t.Dir
		}
		if icon, ok := t.ByExt[DirIconKey]; ok {
			return icon
		}
		return t.Default
	}
	if icon, ok := t.ByExt[strings.ToLower(ext)]; ok {
		return icon
	}
	return t.Default
}

// Merge returns a copy of t with the non-empty fields of override applied
// on top. Extensions in override are lowercased.
func (t IconTable) Merge(override IconTable) IconTable {
	out := IconTable{
		Dir:     t.Dir,
		Default: t.Default,
		ByExt:   make(map[string]string, len(t.ByExt)+len(override.ByExt)),
	}
	for k, v := range t.ByExt {
		out.ByExt[k] = v
	}
	for k, v := range override.ByExt {
		out.ByExt[strings.ToLower(strings.TrimPrefix(k, "."))] = v
	}
	if override.Dir != "" {
		out.Dir = override.Dir
	}
	if override.Default != "" {
		out.Default = override.Default
	}
	return out
}
