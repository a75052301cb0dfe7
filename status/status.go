// Package status implements the three-way comparison between a commit's
// tree, the index, and the workspace that "status" reports are built from.
package status

import (
	"os"

	"github.com/mlaplanche/vgit/index"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/mlaplanche/vgit/workspace"
	"golang.org/x/xerrors"
)

// State is the status of a single path along one of the two comparison
// axes (against the index, or against the workspace).
type State int

const (
	// Untracked means the path has no entry on the other side of the
	// comparison at all.
	Untracked State = iota
	// Added means the path is new relative to HEAD.
	Added
	// Modified means the path differs from the other side.
	Modified
	// Unmodified means the path is identical on both sides.
	Unmodified
	// Deleted means the path existed on the other side but is now gone.
	Deleted
)

func (s State) String() string {
	switch s {
	case Untracked:
		return "untracked"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Unmodified:
		return "unmodified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileStatus is one path's status relative to the index and relative to
// the workspace.
type FileStatus struct {
	Path      workspace.Path
	Index     State
	Workspace State
}

// HeadFile is the entry for one path in the tree HEAD currently points to.
type HeadFile struct {
	Oid  plumbing.Oid
	Mode workspace.Mode
}

// chatty is the fine-grained outcome of comparing a single staged entry
// against what's actually on disk, before it's collapsed to a State.
type chatty int

const (
	chattyUnmodified chatty = iota
	chattyUnmodifiedNewStat
	chattyModified
	chattyDeleted
)

// indexStatusOf compares a staged entry's stat (and, if needed, its
// content) against what's currently on disk for that path.
func indexStatusOf(ws *workspace.Workspace, entry index.Entry) (chatty, workspace.Stat, error) {
	newStat, err := ws.Stat(entry.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return chattyDeleted, workspace.Stat{}, nil
		}
		return 0, workspace.Stat{}, xerrors.Errorf("could not stat %s: %w", entry.Path, err)
	}

	if entry.Stat.Size != newStat.Size || entry.Stat.Mode != newStat.Mode {
		return chattyModified, newStat, nil
	}

	if entry.Stat.Mtime.Equal(newStat.Mtime) && entry.Stat.Ctime.Equal(newStat.Ctime) {
		return chattyUnmodified, newStat, nil
	}

	content, err := ws.ReadFile(entry.Path)
	if err != nil {
		return 0, workspace.Stat{}, xerrors.Errorf("could not read %s: %w", entry.Path, err)
	}
	newOid := object.NewBlobFromContent(content).ID()

	if entry.Oid == newOid {
		return chattyUnmodifiedNewStat, newStat, nil
	}
	return chattyModified, newStat, nil
}

// workspaceStatusOf computes the index-vs-workspace State for path, and,
// if the file turns out to be byte-identical but has a fresher stat,
// refreshes the staged stat through mutator so future calls take the fast
// path.
func workspaceStatusOf(ws *workspace.Workspace, mutator *index.Mutator, idx *index.Index, path workspace.Path) (State, error) {
	entry, ok := idx.Entry(path)
	if !ok {
		return Untracked, nil
	}

	outcome, newStat, err := indexStatusOf(ws, entry)
	if err != nil {
		return 0, err
	}

	switch outcome {
	case chattyUnmodified:
		return Unmodified, nil
	case chattyUnmodifiedNewStat:
		if _, err := mutator.UpdateStat(path, newStat); err != nil {
			return 0, xerrors.Errorf("could not refresh stat for %s: %w", path, err)
		}
		return Unmodified, nil
	case chattyModified:
		return Modified, nil
	case chattyDeleted:
		return Deleted, nil
	default:
		return Unmodified, nil
	}
}

// headStatusOf compares a staged entry against HEAD's recorded content for
// the same path.
func headStatusOf(idx *index.Index, head map[string]HeadFile, path workspace.Path) State {
	entry, ok := idx.Entry(path)
	if !ok {
		return Untracked
	}

	headFile, ok := head[path.String()]
	if !ok {
		return Added
	}
	entryMode := workspace.ModeRegular
	if entry.Stat.Mode == workspace.ModeExecutable {
		entryMode = workspace.ModeExecutable
	}
	if headFile.Mode == entryMode && headFile.Oid == entry.Oid {
		return Unmodified
	}
	return Modified
}

// Compute walks every file in the workspace plus every staged and
// committed path, and returns the combined index/workspace status of
// each. Any refreshed stat cache entries are staged in mutator but not
// committed; the caller is responsible for calling mutator.Commit.
func Compute(ws *workspace.Workspace, idx *index.Index, mutator *index.Mutator, head map[string]HeadFile) (map[string]FileStatus, error) {
	files, err := ws.ListFiles()
	if err != nil {
		return nil, xerrors.Errorf("could not list workspace files: %w", err)
	}

	wsStatus := map[string]State{}
	idxStatus := map[string]State{}

	for _, path := range files {
		state, err := workspaceStatusOf(ws, mutator, idx, path)
		if err != nil {
			return nil, err
		}
		wsStatus[path.String()] = state
		idxStatus[path.String()] = headStatusOf(idx, head, path)
	}

	for _, entry := range idx.Entries() {
		key := entry.Path.String()
		if _, seen := wsStatus[key]; !seen {
			wsStatus[key] = Deleted
			if _, seen := idxStatus[key]; !seen {
				idxStatus[key] = headStatusOf(idx, head, entry.Path)
			}
		}
	}

	for key := range head {
		if !idx.IsTracked(workspace.NewPath(key)) {
			idxStatus[key] = Deleted
		}
	}

	statuses := map[string]FileStatus{}
	for key, ws := range wsStatus {
		idxSt, ok := idxStatus[key]
		if !ok {
			idxSt = Untracked
		}
		delete(idxStatus, key)
		statuses[key] = FileStatus{Path: workspace.NewPath(key), Workspace: ws, Index: idxSt}
	}
	for key, idxSt := range idxStatus {
		statuses[key] = FileStatus{Path: workspace.NewPath(key), Workspace: Deleted, Index: idxSt}
	}

	return statuses, nil
}
