// Package workspace reads the working tree: listing tracked-candidate
// files, reading their contents, and stat-ing them for the status engine.
package workspace

import (
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/xerrors"
)

// ignoredTopLevel names are never walked into or reported, the same way
// the teacher's ODB never treats .git as workspace content.
var ignoredTopLevel = map[string]bool{
	".git": true,
}

// Workspace is the working directory a repository is checked out into.
type Workspace struct {
	root string
}

// New wraps an absolute path as a Workspace.
func New(root string) *Workspace {
	return &Workspace{root: root}
}

// Root returns the workspace's absolute path.
func (w *Workspace) Root() string {
	return w.root
}

// Abs resolves a workspace-relative Path to an absolute filesystem path.
func (w *Workspace) Abs(p Path) string {
	return filepath.Join(w.root, filepath.FromSlash(p.String()))
}

// ListFiles walks the entire workspace and returns every regular file,
// sorted by path, excluding .git.
func (w *Workspace) ListFiles() ([]Path, error) {
	return w.FindFiles([]Path{RootPath()})
}

// FindFiles walks the given starting paths (files or directories) and
// returns every regular file found under them, sorted by path.
func (w *Workspace) FindFiles(starts []Path) ([]Path, error) {
	var files []Path
	for _, start := range starts {
		if err := w.collect(start, &files); err != nil {
			return nil, err
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Less(files[j]) })
	return files, nil
}

func (w *Workspace) collect(p Path, files *[]Path) error {
	if !p.IsRoot() && ignoredTopLevel[p.Components()[0]] {
		return nil
	}

	abs := w.Abs(p)
	info, err := os.Lstat(abs)
	if err != nil {
		return xerrors.Errorf("could not stat %s: %w", p, err)
	}

	switch {
	case info.IsDir():
		entries, err := os.ReadDir(abs)
		if err != nil {
			return xerrors.Errorf("could not read directory %s: %w", p, err)
		}
		for _, entry := range entries {
			if err := w.collect(p.Join(entry.Name()), files); err != nil {
				return err
			}
		}
	case info.Mode().IsRegular():
		*files = append(*files, p)
	default:
		return xerrors.Errorf("%s is neither a file nor a directory", p)
	}
	return nil
}

// ReadFile returns the contents of a workspace-relative file.
func (w *Workspace) ReadFile(p Path) ([]byte, error) {
	data, err := os.ReadFile(w.Abs(p))
	if err != nil {
		return nil, xerrors.Errorf("could not read %s: %w", p, err)
	}
	return data, nil
}

// Stat stats a workspace-relative file. The returned error satisfies
// os.IsNotExist when the file is missing, matching what the status engine
// needs to distinguish "deleted" from a real stat failure.
func (w *Workspace) Stat(p Path) (Stat, error) {
	info, err := os.Lstat(w.Abs(p))
	if err != nil {
		return Stat{}, err
	}
	return newStat(info), nil
}
