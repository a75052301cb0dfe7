package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddCommandStagesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := runCmd(t, "init", "-C", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello"), 0o644))

	_, err = runCmd(t, "add", "-C", dir, "hello.txt")
	require.NoError(t, err)

	out, err := runCmd(t, "status", "-C", dir)
	require.NoError(t, err)
	require.Contains(t, out, "hello.txt")
}

func TestAddCommandRequiresAtLeastOnePathspec(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := runCmd(t, "init", "-C", dir)
	require.NoError(t, err)

	_, err = runCmd(t, "add", "-C", dir)
	require.Error(t, err)
}

func TestAddCommandFailsOutsideRepo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := runCmd(t, "add", "-C", dir, "hello.txt")
	require.Error(t, err)
}
