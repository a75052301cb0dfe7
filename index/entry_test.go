package index

import (
	"bytes"
	"testing"
	"time"

	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(t *testing.T, path string) Entry {
	t.Helper()

	oid, err := plumbing.NewOidFromHex("0eaf966ff79d8f61958aaefe163620d952606516")
	require.NoError(t, err)

	stat := workspace.Stat{
		Ctime: time.Unix(1000, 2000),
		Mtime: time.Unix(3000, 4000),
		Dev:   5,
		Ino:   6,
		Mode:  workspace.ModeExecutable,
		UID:   7,
		GID:   8,
		Size:  42,
	}
	return NewEntry(workspace.NewPath(path), oid, stat)
}

func TestEntryWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []string{
		"a",
		"dir/file.txt",
		"a/very/deeply/nested/path/to/some-file.go",
	}
	for _, path := range testCases {
		path := path
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			e := testEntry(t, path)

			var buf bytes.Buffer
			require.NoError(t, e.writeTo(&buf))

			// the record must always be padded to a multiple of blockSize
			assert.Zero(t, buf.Len()%blockSize)

			got, err := readEntry(&buf)
			require.NoError(t, err)

			assert.Equal(t, e.Oid, got.Oid)
			assert.Equal(t, e.Path, got.Path)
			assert.Equal(t, e.Stat.Dev, got.Stat.Dev)
			assert.Equal(t, e.Stat.Ino, got.Stat.Ino)
			assert.Equal(t, e.Stat.Mode, got.Stat.Mode)
			assert.Equal(t, e.Stat.UID, got.Stat.UID)
			assert.Equal(t, e.Stat.GID, got.Stat.GID)
			assert.Equal(t, e.Stat.Size, got.Stat.Size)
			assert.True(t, e.Stat.Ctime.Equal(got.Stat.Ctime))
			assert.True(t, e.Stat.Mtime.Equal(got.Stat.Mtime))
		})
	}
}

func TestPaddingSizeAlwaysFillsToBoundary(t *testing.T) {
	t.Parallel()

	for pathLen := 0; pathLen < blockSize*3; pathLen++ {
		pad := paddingSize(pathLen)
		assert.Greater(t, pad, 0)
		assert.Zero(t, (pathOffset+pathLen+pad)%blockSize)
	}
}

func TestModeRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, workspace.ModeExecutable, modeFromU32(modeToU32(workspace.ModeExecutable)))
	assert.Equal(t, workspace.ModeRegular, modeFromU32(modeToU32(workspace.ModeRegular)))
}
