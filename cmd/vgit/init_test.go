package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommandCreatesRepo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := runCmd(t, "init", "-C", dir)
	require.NoError(t, err)

	gitDir := filepath.Join(dir, ".git")
	assert.DirExists(t, gitDir)
	assert.Equal(t, "Initialized empty Git repository in "+gitDir+"\n", out)
}

func TestInitCommandReinitializing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := runCmd(t, "init", "-C", dir)
	require.NoError(t, err)

	out, err := runCmd(t, "init", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "Reinitialized existing Git repository in "+dir+"\n", out)
}

func TestInitCommandCreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "project")

	_, err := runCmd(t, "init", "-C", target)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(target, ".git"))
}

func TestInitCommandDefaultsToCurrentDirectory(t *testing.T) {
	dir := t.TempDir()

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(cwd)) })

	_, err = runCmd(t, "init")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, ".git"))
}
