package fsbackend_test

import (
	"testing"

	"github.com/mlaplanche/vgit/backend/fsbackend"
	"github.com/mlaplanche/vgit/internal/gitpath"
	"github.com/mlaplanche/vgit/internal/repoconfig"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesLayout(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	b := fsbackend.New(fs, "/repo/.git")
	require.NoError(t, b.Init())

	for _, dir := range []string{gitpath.ObjectsPath, gitpath.RefsTagsPath, gitpath.RefsHeadsPath} {
		isDir, err := afero.DirExists(fs, "/repo/.git/"+dir)
		require.NoError(t, err)
		assert.True(t, isDir, "expected %s to exist", dir)
	}

	exists, err := afero.Exists(fs, "/repo/.git/"+repoconfig.FileName)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInitIsIdempotent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	b := fsbackend.New(fs, "/repo/.git")
	require.NoError(t, b.Init())
	require.NoError(t, b.Init())
}
