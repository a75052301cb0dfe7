// Package fsbackend contains an implementation of the backend.Backend
// interface for the filesystem.
package fsbackend

import (
	"path/filepath"
	"sync"

	"github.com/mlaplanche/vgit/backend"
	"github.com/mlaplanche/vgit/internal/cache"
	"github.com/mlaplanche/vgit/internal/gitpath"
	"github.com/mlaplanche/vgit/internal/repoconfig"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// objectCacheSize bounds how many decompressed objects are kept in memory.
const objectCacheSize = 256

// we make sure the struct implements the interface
var _ backend.Backend = (*Backend)(nil)

// Backend is a Backend implementation that uses the filesystem to store
// loose objects under a .git directory.
type Backend struct {
	fs   afero.Fs
	root string

	cache *cache.LRU

	// objectMu serializes writes so two goroutines never race to create
	// the same loose object file.
	objectMu sync.Mutex
}

// New returns a new Backend rooted at dotGitPath.
func New(fs afero.Fs, dotGitPath string) *Backend {
	return &Backend{
		fs:    fs,
		root:  dotGitPath,
		cache: cache.NewLRU(objectCacheSize),
	}
}

// Init creates the directories and default config a fresh repository
// needs. Calling it on an existing repository is safe: it never
// overwrites what's already there.
func (b *Backend) Init() error {
	dirs := []string{
		gitpath.ObjectsPath,
		gitpath.RefsTagsPath,
		gitpath.RefsHeadsPath,
	}
	for _, d := range dirs {
		fullPath := b.path(d)
		if err := b.fs.MkdirAll(fullPath, 0o750); err != nil {
			return xerrors.Errorf("could not create directory %s: %w", d, err)
		}
	}

	descPath := b.path(gitpath.DescriptionPath)
	descExists, err := afero.Exists(b.fs, descPath)
	if err != nil {
		return xerrors.Errorf("could not check file %s: %w", descPath, err)
	}
	if !descExists {
		desc := []byte("Unnamed repository; edit this file 'description' to name the repository.\n")
		if err := afero.WriteFile(b.fs, descPath, desc, 0o644); err != nil {
			return xerrors.Errorf("could not create file %s: %w", descPath, err)
		}
	}

	cfgPath := b.path(repoconfig.FileName)
	cfgExists, err := afero.Exists(b.fs, cfgPath)
	if err != nil {
		return xerrors.Errorf("could not check file %s: %w", cfgPath, err)
	}
	if !cfgExists {
		if err := repoconfig.WriteDefault(b.fs, b.root); err != nil {
			return xerrors.Errorf("could not write default config: %w", err)
		}
	}

	return nil
}

func (b *Backend) path(parts ...string) string {
	return filepath.Join(append([]string{b.root}, parts...)...)
}
