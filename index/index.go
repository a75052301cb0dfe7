package index

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/mlaplanche/vgit/internal/lockfile"
	"github.com/mlaplanche/vgit/workspace"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Index is the staging area: the set of paths that will make up the next
// commit's tree, along with the stat info last observed for each.
type Index struct {
	fs      afero.Fs
	path    string
	entries map[string]Entry
}

// FileName is the name of the index file within a .git directory.
const FileName = "index"

// Load reads the index file under gitDir, or returns an empty Index if one
// doesn't exist yet.
func Load(fs afero.Fs, gitDir string) (*Index, error) {
	path := filepath.Join(gitDir, FileName)

	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{fs: fs, path: path, entries: map[string]Entry{}}, nil
		}
		return nil, xerrors.Errorf("could not open index %s: %w", path, err)
	}
	defer f.Close()

	entries, err := decodeEntries(f)
	if err != nil {
		return nil, xerrors.Errorf("could not parse index %s: %w", path, err)
	}
	return &Index{fs: fs, path: path, entries: entries}, nil
}

// Entries returns every staged entry, sorted by path.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path.Less(out[j].Path) })
	return out
}

// IsTracked reports whether path has a staged entry.
func (idx *Index) IsTracked(path workspace.Path) bool {
	_, ok := idx.entries[path.String()]
	return ok
}

// Entry returns the staged entry for path, if any.
func (idx *Index) Entry(path workspace.Path) (Entry, bool) {
	e, ok := idx.entries[path.String()]
	return e, ok
}

// parentsMap tracks, for every directory prefix that appears among the
// index's entries, the set of full entry paths nested under it. It's kept
// in sync as entries are added and removed so that adding a path can
// cheaply find and evict any existing entries nested beneath it.
type parentsMap map[string]map[string]bool

// Mutator is a modification session over an Index: a lock is held on the
// on-disk index file for its whole lifetime, and no change is visible on
// disk until Commit.
type Mutator struct {
	idx     *Index
	parents parentsMap
	lock    *lockfile.LockedFile
}

// Modify opens the index for modification, locking its on-disk file. The
// caller must eventually call Commit or Cancel.
func (idx *Index) Modify() (*Mutator, error) {
	lock, err := lockfile.Acquire(idx.fs, idx.path)
	if err != nil {
		return nil, xerrors.Errorf("could not lock index %s: %w", idx.path, err)
	}

	m := &Mutator{idx: idx, lock: lock, parents: parentsMap{}}
	for _, e := range idx.entries {
		m.populateParentsFor(e)
	}
	return m, nil
}

func (m *Mutator) populateParentsFor(e Entry) {
	for _, parent := range e.Path.Parents() {
		key := parent.String()
		if m.parents[key] == nil {
			m.parents[key] = map[string]bool{}
		}
		m.parents[key][e.Path.String()] = true
	}
}

// Add stages an entry, evicting any existing entries that conflict with
// it: entries at an ancestor directory of its path (the new path has
// replaced a file with a directory) and entries nested under its path
// (the new path has replaced a directory with a file).
func (m *Mutator) Add(e Entry) {
	m.populateParentsFor(e)
	m.discardConflictsWith(e.Path)
	m.idx.entries[e.Path.String()] = e
}

func (m *Mutator) discardConflictsWith(path workspace.Path) {
	for _, parent := range path.Parents() {
		m.remove(parent)
	}

	key := path.String()
	if conflicts, ok := m.parents[key]; ok {
		toRemove := make([]string, 0, len(conflicts))
		for conflict := range conflicts {
			toRemove = append(toRemove, conflict)
		}
		for _, conflict := range toRemove {
			m.remove(workspace.NewPath(conflict))
		}
	}
}

// UpdateStat overwrites the stat recorded for an already-staged path and
// returns the stat it replaced.
func (m *Mutator) UpdateStat(path workspace.Path, stat workspace.Stat) (workspace.Stat, error) {
	e, ok := m.idx.entries[path.String()]
	if !ok {
		return workspace.Stat{}, xerrors.Errorf("no staged entry for %s", path)
	}
	old := e.Stat
	e.Stat = stat
	m.idx.entries[path.String()] = e
	return old, nil
}

// Remove unstages path, if it was staged.
func (m *Mutator) Remove(path workspace.Path) (Entry, bool) {
	e, ok := m.idx.entries[path.String()]
	if ok {
		m.remove(path)
	}
	return e, ok
}

func (m *Mutator) remove(path workspace.Path) {
	if _, ok := m.idx.entries[path.String()]; !ok {
		return
	}
	delete(m.idx.entries, path.String())
	for _, parent := range path.Parents() {
		key := parent.String()
		if children, ok := m.parents[key]; ok {
			delete(children, path.String())
			if len(children) == 0 {
				delete(m.parents, key)
			}
		}
	}
}

// Commit writes the modified entry set to disk and atomically publishes
// it over the previous index file.
func (m *Mutator) Commit() error {
	entries := m.idx.Entries()
	if err := encodeEntries(m.lock, entries); err != nil {
		_ = m.lock.Cancel()
		return xerrors.Errorf("could not write index: %w", err)
	}
	if err := m.lock.Commit(); err != nil {
		return xerrors.Errorf("could not commit index: %w", err)
	}
	return nil
}

// Cancel discards the pending changes and releases the lock without
// touching the on-disk index.
func (m *Mutator) Cancel() error {
	return m.lock.Cancel()
}
