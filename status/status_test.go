package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlaplanche/vgit/index"
	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/mlaplanche/vgit/status"
	"github.com/mlaplanche/vgit/workspace"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (ws *workspace.Workspace, idx *index.Index, gitDir string) {
	t.Helper()

	root := t.TempDir()
	gitDir = filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o750))

	ws = workspace.New(root)

	fs := afero.NewOsFs()
	idx, err := index.Load(fs, gitDir)
	require.NoError(t, err)
	return ws, idx, gitDir
}

func writeFile(t *testing.T, ws *workspace.Workspace, path, content string) {
	t.Helper()
	p := workspace.NewPath(path)
	abs := ws.Abs(p)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o750))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func stageFile(t *testing.T, ws *workspace.Workspace, idx *index.Index, path, content string) {
	t.Helper()
	writeFile(t, ws, path, content)

	stat, err := ws.Stat(workspace.NewPath(path))
	require.NoError(t, err)
	oid := object.NewBlobFromContent([]byte(content)).ID()

	m, err := idx.Modify()
	require.NoError(t, err)
	m.Add(index.NewEntry(workspace.NewPath(path), oid, stat))
	require.NoError(t, m.Commit())
}

func TestComputeUntrackedFile(t *testing.T) {
	t.Parallel()

	ws, idx, _ := setup(t)
	writeFile(t, ws, "new.txt", "hello")

	m, err := idx.Modify()
	require.NoError(t, err)
	defer m.Cancel()

	statuses, err := status.Compute(ws, idx, m, map[string]status.HeadFile{})
	require.NoError(t, err)

	got, ok := statuses["new.txt"]
	require.True(t, ok)
	assert.Equal(t, status.Untracked, got.Workspace)
	assert.Equal(t, status.Untracked, got.Index)
}

func TestComputeUnmodifiedFile(t *testing.T) {
	t.Parallel()

	ws, idx, _ := setup(t)
	stageFile(t, ws, idx, "tracked.txt", "hello")

	m, err := idx.Modify()
	require.NoError(t, err)
	defer m.Cancel()

	statuses, err := status.Compute(ws, idx, m, map[string]status.HeadFile{})
	require.NoError(t, err)

	got, ok := statuses["tracked.txt"]
	require.True(t, ok)
	assert.Equal(t, status.Unmodified, got.Workspace)
	// not in HEAD yet, but staged -> Added relative to HEAD
	assert.Equal(t, status.Added, got.Index)
}

func TestComputeModifiedFile(t *testing.T) {
	t.Parallel()

	ws, idx, _ := setup(t)
	stageFile(t, ws, idx, "tracked.txt", "hello")
	writeFile(t, ws, "tracked.txt", "goodbye, much longer content")

	m, err := idx.Modify()
	require.NoError(t, err)
	defer m.Cancel()

	statuses, err := status.Compute(ws, idx, m, map[string]status.HeadFile{})
	require.NoError(t, err)

	got, ok := statuses["tracked.txt"]
	require.True(t, ok)
	assert.Equal(t, status.Modified, got.Workspace)
}

func TestComputeDeletedFromWorkspace(t *testing.T) {
	t.Parallel()

	ws, idx, _ := setup(t)
	stageFile(t, ws, idx, "tracked.txt", "hello")
	require.NoError(t, os.Remove(ws.Abs(workspace.NewPath("tracked.txt"))))

	entry, ok := idx.Entry(workspace.NewPath("tracked.txt"))
	require.True(t, ok)
	head := map[string]status.HeadFile{
		"tracked.txt": {Oid: entry.Oid, Mode: workspace.ModeRegular},
	}

	m, err := idx.Modify()
	require.NoError(t, err)
	defer m.Cancel()

	statuses, err := status.Compute(ws, idx, m, head)
	require.NoError(t, err)

	got, ok := statuses["tracked.txt"]
	require.True(t, ok)
	assert.Equal(t, status.Deleted, got.Workspace)
	assert.Equal(t, status.Unmodified, got.Index)
}

func TestComputeUnmodifiedAgainstHead(t *testing.T) {
	t.Parallel()

	ws, idx, _ := setup(t)
	stageFile(t, ws, idx, "tracked.txt", "hello")

	entry, ok := idx.Entry(workspace.NewPath("tracked.txt"))
	require.True(t, ok)

	head := map[string]status.HeadFile{
		"tracked.txt": {Oid: entry.Oid, Mode: workspace.ModeRegular},
	}

	m, err := idx.Modify()
	require.NoError(t, err)
	defer m.Cancel()

	statuses, err := status.Compute(ws, idx, m, head)
	require.NoError(t, err)

	got, ok := statuses["tracked.txt"]
	require.True(t, ok)
	assert.Equal(t, status.Unmodified, got.Index)
}
