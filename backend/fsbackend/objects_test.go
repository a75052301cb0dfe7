package fsbackend_test

import (
	"testing"

	"github.com/mlaplanche/vgit/backend/fsbackend"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *fsbackend.Backend {
	t.Helper()
	fs := afero.NewMemMapFs()
	b := fsbackend.New(fs, "/repo/.git")
	require.NoError(t, b.Init())
	return b
}

func TestWriteObjectThenObject(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	blob := object.NewBlobFromContent([]byte("hello world"))

	oid, err := b.WriteObject(blob.ToObject())
	require.NoError(t, err)
	assert.Equal(t, blob.ID(), oid)

	got, err := b.Object(oid)
	require.NoError(t, err)
	assert.Equal(t, object.TypeBlob, got.Type())
	assert.Equal(t, "hello world", string(got.Bytes()))
}

func TestWriteObjectIsIdempotent(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	blob := object.NewBlobFromContent([]byte("hello world"))

	first, err := b.WriteObject(blob.ToObject())
	require.NoError(t, err)
	second, err := b.WriteObject(blob.ToObject())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHasObject(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	blob := object.NewBlobFromContent([]byte("hello world"))

	has, err := b.HasObject(blob.ID())
	require.NoError(t, err)
	assert.False(t, has)

	_, err = b.WriteObject(blob.ToObject())
	require.NoError(t, err)

	has, err = b.HasObject(blob.ID())
	require.NoError(t, err)
	assert.True(t, has)
}

func TestObjectMissingReturnsError(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	oid, err := plumbing.NewOidFromHex("0eaf966ff79d8f61958aaefe163620d952606516")
	require.NoError(t, err)

	_, err = b.Object(oid)
	require.Error(t, err)
}

func TestObjectIsServedFromCache(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	blob := object.NewBlobFromContent([]byte("cached content"))
	oid, err := b.WriteObject(blob.ToObject())
	require.NoError(t, err)

	first, err := b.Object(oid)
	require.NoError(t, err)
	second, err := b.Object(oid)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
