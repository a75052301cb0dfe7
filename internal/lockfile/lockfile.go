// Package lockfile implements the lock-then-rename discipline used to
// update the index and refs without ever leaving a reader with a
// half-written file.
package lockfile

import (
	"errors"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrContested is returned when another process already holds the lock.
var ErrContested = errors.New("lock file already exists")

// ErrNotFound is returned when the protected file's directory doesn't
// exist, so the lock could never be created there either.
var ErrNotFound = errors.New("path does not exist")

// LockedFile guards writes to path with a sibling path+".lock" file,
// created exclusively. Callers write to the LockedFile itself; the bytes
// only become visible at path once Commit renames the lock over it.
type LockedFile struct {
	fs       afero.Fs
	path     string
	lockPath string

	lock      afero.File
	committed bool
}

// Acquire creates path+".lock" exclusively and returns a LockedFile
// wrapping it. It fails with ErrContested if the lock already exists.
func Acquire(fs afero.Fs, path string) (*LockedFile, error) {
	lockPath := path + ".lock"

	lock, err := fs.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrContested
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, xerrors.Errorf("could not create lock at %s: %w", lockPath, err)
	}

	lf := &LockedFile{fs: fs, path: path, lockPath: lockPath, lock: lock}
	runtime.SetFinalizer(lf, finalizeLockedFile)
	return lf, nil
}

// ProtectedFile opens the file being protected, read-only, as it currently
// stands on disk. Writes made through the LockedFile are not visible here
// until Commit runs -- this is for reading the pre-update state.
func (l *LockedFile) ProtectedFile() (afero.File, error) {
	f, err := l.fs.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, xerrors.Errorf("could not open %s: %w", l.path, err)
	}
	return f, nil
}

// Write writes to the lock file.
func (l *LockedFile) Write(p []byte) (int, error) {
	return l.lock.Write(p)
}

var _ io.Writer = (*LockedFile)(nil)

// Commit flushes and closes the lock file, then atomically renames it over
// the protected path.
func (l *LockedFile) Commit() error {
	if err := l.lock.Close(); err != nil {
		return xerrors.Errorf("could not close lock %s: %w", l.lockPath, err)
	}
	if err := l.fs.Rename(l.lockPath, l.path); err != nil {
		return xerrors.Errorf("could not commit lock %s to %s: %w", l.lockPath, l.path, err)
	}
	l.committed = true
	runtime.SetFinalizer(l, nil)
	return nil
}

// Cancel closes and removes the lock file without touching the protected
// path.
func (l *LockedFile) Cancel() error {
	return l.cancel()
}

func (l *LockedFile) cancel() error {
	if l.committed {
		return nil
	}
	_ = l.lock.Close()
	err := l.fs.Remove(l.lockPath)
	l.committed = true // prevent the finalizer from warning a second time
	runtime.SetFinalizer(l, nil)
	if err != nil {
		return xerrors.Errorf("could not remove lock %s: %w", l.lockPath, err)
	}
	return nil
}

// finalizeLockedFile is the best-effort analogue of the Rust original's
// Drop impl: if a LockedFile is garbage collected without Commit or
// Cancel having been called, warn and clean up the lock file so it
// doesn't wedge future callers.
func finalizeLockedFile(l *LockedFile) {
	if l.committed {
		return
	}
	log.Printf("lockfile: %s was never committed or cancelled, cancelling now", l.path)
	if err := l.cancel(); err != nil {
		log.Printf("lockfile: failed to clean up abandoned lock %s: %v", l.lockPath, err)
	}
}
