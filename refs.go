package vgit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mlaplanche/vgit/internal/lockfile"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// headFileName is the name of the file under the git directory that holds
// the raw hex oid of the commit HEAD points at. Unlike stock git, HEAD is
// never a symbolic reference to a branch; it's always the last commit
// made directly.
const headFileName = "HEAD"

// Refs manages the single ref this module tracks: HEAD.
type Refs struct {
	fs  afero.Fs
	dir string
}

// NewRefs wraps the refs stored under gitDir.
func NewRefs(fs afero.Fs, gitDir string) *Refs {
	return &Refs{fs: fs, dir: gitDir}
}

func (r *Refs) headPath() string {
	return filepath.Join(r.dir, headFileName)
}

// Head returns the oid HEAD currently points at, or plumbing.NullOid if
// there have been no commits yet.
func (r *Refs) Head() (plumbing.Oid, error) {
	data, err := afero.ReadFile(r.fs, r.headPath())
	if err != nil {
		if os.IsNotExist(err) {
			return plumbing.NullOid, nil
		}
		return plumbing.NullOid, xerrors.Errorf("could not read HEAD: %w", err)
	}

	hex := strings.TrimSpace(string(data))
	oid, err := plumbing.NewOidFromHex(hex)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("HEAD contains an invalid oid %q: %w", hex, err)
	}
	return oid, nil
}

// UpdateHead points HEAD at oid.
func (r *Refs) UpdateHead(oid plumbing.Oid) error {
	lock, err := lockfile.Acquire(r.fs, r.headPath())
	if err != nil {
		return xerrors.Errorf("could not lock HEAD: %w", err)
	}

	if _, err := lock.Write([]byte(oid.String() + "\n")); err != nil {
		_ = lock.Cancel()
		return xerrors.Errorf("could not write HEAD: %w", err)
	}

	if err := lock.Commit(); err != nil {
		return xerrors.Errorf("could not commit HEAD: %w", err)
	}
	return nil
}
