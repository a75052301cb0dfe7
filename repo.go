// Package vgit implements a minimal, on-disk-compatible git: an object
// database, an index, and a three-way status engine, wired together
// behind a small repository facade.
package vgit

import (
	"path/filepath"

	"github.com/mlaplanche/vgit/backend"
	"github.com/mlaplanche/vgit/backend/fsbackend"
	"github.com/mlaplanche/vgit/index"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/mlaplanche/vgit/status"
	"github.com/mlaplanche/vgit/workspace"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// gitDirName is the name of the repository metadata directory within a
// workspace.
const gitDirName = ".git"

// Repo is a working repository: a workspace checked out on disk, backed
// by an object database and an index, both rooted at a .git directory.
type Repo struct {
	fs        afero.Fs
	gitDir    string
	workspace *workspace.Workspace
	objects   backend.Backend
	refs      *Refs
	idx       *index.Index
}

// Init creates a new repository rooted at dir, creating dir itself if
// needed. It fails with ErrRepositoryExists if dir already contains a
// .git directory.
func Init(fs afero.Fs, dir string) (*Repo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve %s: %w", dir, err)
	}

	if err := fs.MkdirAll(absDir, 0o750); err != nil {
		return nil, xerrors.Errorf("could not create %s: %w", absDir, err)
	}

	gitDir := filepath.Join(absDir, gitDirName)
	exists, err := afero.DirExists(fs, gitDir)
	if err != nil {
		return nil, xerrors.Errorf("could not check %s: %w", gitDir, err)
	}
	if exists {
		return nil, ErrRepositoryExists
	}

	objects := fsbackend.New(fs, gitDir)
	if err := objects.Init(); err != nil {
		return nil, xerrors.Errorf("could not initialize object database: %w", err)
	}

	idx, err := index.Load(fs, gitDir)
	if err != nil {
		return nil, xerrors.Errorf("could not load index: %w", err)
	}

	return &Repo{
		fs:        fs,
		gitDir:    gitDir,
		workspace: workspace.New(absDir),
		objects:   objects,
		refs:      NewRefs(fs, gitDir),
		idx:       idx,
	}, nil
}

// Open opens an existing repository rooted at dir. It fails with
// ErrNotARepository if dir has no .git directory.
func Open(fs afero.Fs, dir string) (*Repo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve %s: %w", dir, err)
	}

	gitDir := filepath.Join(absDir, gitDirName)
	exists, err := afero.DirExists(fs, gitDir)
	if err != nil {
		return nil, xerrors.Errorf("could not check %s: %w", gitDir, err)
	}
	if !exists {
		return nil, ErrNotARepository
	}

	idx, err := index.Load(fs, gitDir)
	if err != nil {
		return nil, xerrors.Errorf("could not load index: %w", err)
	}

	return &Repo{
		fs:        fs,
		gitDir:    gitDir,
		workspace: workspace.New(absDir),
		objects:   fsbackend.New(fs, gitDir),
		refs:      NewRefs(fs, gitDir),
		idx:       idx,
	}, nil
}

// Add stages the given workspace-relative paths: a directory stages every
// regular file beneath it.
func (r *Repo) Add(paths ...string) error {
	idx, err := index.Load(r.fs, r.gitDir)
	if err != nil {
		return xerrors.Errorf("could not reload index: %w", err)
	}
	r.idx = idx

	mutator, err := r.idx.Modify()
	if err != nil {
		return xerrors.Errorf("could not open index for writing: %w", err)
	}

	starts := make([]workspace.Path, 0, len(paths))
	for _, p := range paths {
		starts = append(starts, workspace.NewPath(p))
	}

	files, err := r.workspace.FindFiles(starts)
	if err != nil {
		_ = mutator.Cancel()
		return xerrors.Errorf("could not find files: %w", err)
	}

	for _, file := range files {
		data, err := r.workspace.ReadFile(file)
		if err != nil {
			_ = mutator.Cancel()
			return xerrors.Errorf("could not read %s: %w", file, err)
		}
		stat, err := r.workspace.Stat(file)
		if err != nil {
			_ = mutator.Cancel()
			return xerrors.Errorf("could not stat %s: %w", file, err)
		}

		blob := object.NewBlobFromContent(data)
		oid, err := r.objects.WriteObject(blob.ToObject())
		if err != nil {
			_ = mutator.Cancel()
			return xerrors.Errorf("could not store %s: %w", file, err)
		}

		mutator.Add(index.NewEntry(file, oid, stat))
	}

	if err := mutator.Commit(); err != nil {
		return xerrors.Errorf("could not commit index: %w", err)
	}
	return nil
}

// Commit builds a tree from the current index, wraps it in a commit
// object pointing at the current HEAD as its parent, stores both, and
// advances HEAD to the new commit.
func (r *Repo) Commit(name, email, msg string) (plumbing.Oid, error) {
	if msg == "" {
		return plumbing.NullOid, ErrEmptyMessage
	}
	if msg[len(msg)-1] != '\n' {
		msg += "\n"
	}

	idx, err := index.Load(r.fs, r.gitDir)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not reload index: %w", err)
	}
	r.idx = idx

	entries := r.idx.Entries()
	if len(entries) == 0 {
		return plumbing.NullOid, ErrNothingToCommit
	}

	builder := newTreeBuilder()
	for _, entry := range entries {
		builder.add(treeEntryDesc{path: entry.Path, oid: entry.Oid, mode: entry.Stat.Mode})
	}
	treeOid, err := builder.store(r.objects)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not store tree: %w", err)
	}
	tree, err := r.objects.Object(treeOid)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not reload stored tree: %w", err)
	}
	treeObj, err := tree.AsTree()
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("stored object is not a tree: %w", err)
	}

	parent, err := r.refs.Head()
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not read HEAD: %w", err)
	}

	author := object.NewSignature(name, email)
	opts := &object.CommitOptions{Message: msg, Committer: author}
	if !parent.IsZero() {
		opts.ParentIDs = []plumbing.Oid{parent}
	}
	commit := object.NewCommit(treeObj, author, opts)

	commitOid, err := r.objects.WriteObject(commit.ToObject())
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not store commit: %w", err)
	}

	if err := r.refs.UpdateHead(commitOid); err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not update HEAD: %w", err)
	}

	return commitOid, nil
}

// Status reports, for every path under the workspace plus every path
// tracked by the index or HEAD, its status relative to the index and
// relative to the workspace.
func (r *Repo) Status() (map[string]status.FileStatus, error) {
	head, err := r.headFiles()
	if err != nil {
		return nil, xerrors.Errorf("could not read HEAD tree: %w", err)
	}

	idx, err := index.Load(r.fs, r.gitDir)
	if err != nil {
		return nil, xerrors.Errorf("could not reload index: %w", err)
	}
	r.idx = idx

	mutator, err := r.idx.Modify()
	if err != nil {
		return nil, xerrors.Errorf("could not open index for writing: %w", err)
	}

	statuses, err := status.Compute(r.workspace, r.idx, mutator, head)
	if err != nil {
		_ = mutator.Cancel()
		return nil, xerrors.Errorf("could not compute status: %w", err)
	}

	if err := mutator.Commit(); err != nil {
		return nil, xerrors.Errorf("could not persist refreshed stat cache: %w", err)
	}

	return statuses, nil
}

// headFiles walks the tree HEAD points at (if any) and flattens it into a
// path -> HeadFile map, the shape the status engine compares the index
// against.
func (r *Repo) headFiles() (map[string]status.HeadFile, error) {
	oid, err := r.refs.Head()
	if err != nil {
		return nil, err
	}
	files := map[string]status.HeadFile{}
	if oid.IsZero() {
		return files, nil
	}

	commitObj, err := r.objects.Object(oid)
	if err != nil {
		return nil, xerrors.Errorf("could not load HEAD commit: %w", err)
	}
	commit, err := commitObj.AsCommit()
	if err != nil {
		return nil, xerrors.Errorf("HEAD does not point at a commit: %w", err)
	}

	if err := r.walkTree(commit.TreeID(), "", files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *Repo) walkTree(oid plumbing.Oid, prefix string, out map[string]status.HeadFile) error {
	obj, err := r.objects.Object(oid)
	if err != nil {
		return xerrors.Errorf("could not load tree %s: %w", oid, err)
	}
	tree, err := obj.AsTree()
	if err != nil {
		return xerrors.Errorf("%s is not a tree: %w", oid, err)
	}

	for _, entry := range tree.Entries() {
		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + entry.Name
		}
		if entry.Mode == object.ModeDirectory {
			if err := r.walkTree(entry.ID, path, out); err != nil {
				return err
			}
			continue
		}
		mode := workspace.ModeRegular
		if entry.Mode == object.ModeExecutable {
			mode = workspace.ModeExecutable
		}
		out[path] = status.HeadFile{Oid: entry.ID, Mode: mode}
	}
	return nil
}

// GitDir returns the repository's .git directory.
func (r *Repo) GitDir() string {
	return r.gitDir
}

// WorkspaceRoot returns the repository's workspace root.
func (r *Repo) WorkspaceRoot() string {
	return r.workspace.Root()
}
