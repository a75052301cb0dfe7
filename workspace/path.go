package workspace

import (
	"path/filepath"
	"strings"
)

// Path is a slash-separated, workspace-relative file path. It is always
// assumed to already be normalized (cleaned, no "..", relative); NewPath
// cleans its input but does not check that it is relative or that it
// stays inside the workspace.
type Path struct {
	clean string
}

// NewPath wraps an already-normalized, workspace-relative path.
func NewPath(p string) Path {
	return Path{clean: filepath.ToSlash(filepath.Clean(p))}
}

// RootPath is the workspace root itself.
func RootPath() Path {
	return Path{clean: "."}
}

// String returns the path's slash-separated form.
func (p Path) String() string {
	return p.clean
}

// IsRoot reports whether p is the workspace root.
func (p Path) IsRoot() bool {
	return p.clean == "."
}

// Name returns the final path component.
func (p Path) Name() string {
	return filepath.Base(p.clean)
}

// Parent returns the path one level up. The parent of a top-level entry is
// RootPath.
func (p Path) Parent() Path {
	dir := filepath.Dir(p.clean)
	return Path{clean: filepath.ToSlash(dir)}
}

// Components splits the path into its slash-separated parts.
func (p Path) Components() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(p.clean, "/")
}

// Parents yields every ancestor directory of p, from the shallowest to the
// deepest, excluding the workspace root and p itself. For "foo/bar/baz.txt"
// that's ["foo", "foo/bar"].
func (p Path) Parents() []Path {
	comps := p.Components()
	if len(comps) <= 1 {
		return nil
	}
	out := make([]Path, 0, len(comps)-1)
	for i := 1; i < len(comps); i++ {
		out = append(out, Path{clean: strings.Join(comps[:i], "/")})
	}
	return out
}

// Join appends a path component.
func (p Path) Join(name string) Path {
	if p.IsRoot() {
		return NewPath(name)
	}
	return NewPath(p.clean + "/" + name)
}

// Less orders paths by raw byte comparison of their string form, matching
// the byte-ordering used for tree entries and index records.
func (p Path) Less(other Path) bool {
	return p.clean < other.clean
}
