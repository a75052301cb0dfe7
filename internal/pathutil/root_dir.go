// Package pathutil locates the repository a command should operate on,
// the way git walks up from the current directory looking for .git.
package pathutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mlaplanche/vgit/internal/gitpath"
	"golang.org/x/xerrors"
)

// ErrNoRepo is returned when no repository is found at the given directory
// or any of its ancestors.
var ErrNoRepo = errors.New("not a git repository (or any of the parent directories)")

// RepoRoot returns the absolute path to the workspace root of the repo
// containing the current directory.
func RepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", xerrors.Errorf("could not get current working directory: %w", err)
	}
	return RepoRootFromPath(wd)
}

// RepoRootFromPath returns the absolute path to the workspace root of the
// repo containing p, searching p and then its ancestors in turn.
func RepoRootFromPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", xerrors.Errorf("could not resolve %s: %w", p, err)
	}

	prev := ""
	for abs != prev {
		info, err := os.Stat(filepath.Join(abs, gitpath.DotGitPath))
		if err == nil && info.IsDir() {
			return abs, nil
		}

		prev = abs
		abs = filepath.Dir(abs)
	}
	return "", ErrNoRepo
}
