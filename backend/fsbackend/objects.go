package fsbackend

import (
	"compress/zlib"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mlaplanche/vgit/internal/errutil"
	"github.com/mlaplanche/vgit/internal/gitpath"
	"github.com/mlaplanche/vgit/internal/readutil"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Object returns the object with the given oid. This method can be called
// concurrently.
func (b *Backend) Object(oid plumbing.Oid) (*object.Object, error) {
	if cached, found := b.cache.Get(oid); found {
		if o, valid := cached.(*object.Object); valid {
			return o, nil
		}
	}

	o, err := b.looseObject(oid)
	if err != nil {
		return nil, err
	}
	b.cache.Add(oid, o)
	return o, nil
}

// looseObjectPath returns the absolute path of a loose object:
// .git/objects/first_2_chars_of_sha/remaining_chars_of_sha
func (b *Backend) looseObjectPath(sha string) string {
	return filepath.Join(b.root, gitpath.ObjectsPath, sha[:2], sha[2:])
}

// looseObject reads and parses the object matching oid off disk. An object
// is framed as an ASCII type, a space, an ASCII length, a NUL byte, then
// the payload, all zlib-compressed.
func (b *Backend) looseObject(oid plumbing.Oid) (o *object.Object, err error) {
	strOid := oid.String()
	p := b.looseObjectPath(strOid)

	f, err := b.fs.Open(p)
	if err != nil {
		return nil, xerrors.Errorf("could not get object %s at path %s: %w", strOid, p, err)
	}
	defer errutil.Close(f, &err)

	zlibReader, err := zlib.NewReader(f)
	if err != nil {
		return nil, xerrors.Errorf("could not decompress object %s at path %s: %w", strOid, p, err)
	}
	defer errutil.Close(zlibReader, &err)

	buf, err := io.ReadAll(zlibReader)
	if err != nil {
		return nil, xerrors.Errorf("could not read object %s at path %s: %w", strOid, p, err)
	}

	pos := 0

	typ := readutil.ReadTo(buf, ' ')
	if typ == nil {
		return nil, xerrors.Errorf("could not find object type for %s at path %s", strOid, p)
	}
	oType, err := object.NewTypeFromString(string(typ))
	if err != nil {
		return nil, xerrors.Errorf("unsupported type %s for object %s at path %s", string(typ), strOid, p)
	}
	pos += len(typ) + 1

	size := readutil.ReadTo(buf[pos:], 0)
	if size == nil {
		return nil, xerrors.Errorf("could not find object size for %s at path %s", strOid, p)
	}
	oSize, err := strconv.Atoi(string(size))
	if err != nil {
		return nil, xerrors.Errorf("invalid size %s for object %s at path %s: %w", size, strOid, p, err)
	}
	pos += len(size) + 1

	content := buf[pos:]
	if len(content) != oSize {
		return nil, xerrors.Errorf("object %s marked as size %d, but has %d at path %s", strOid, oSize, len(content), p)
	}

	return object.New(oType, content), nil
}

// HasObject returns whether an object exists in the odb. This method can
// be called concurrently.
func (b *Backend) HasObject(oid plumbing.Oid) (bool, error) {
	_, err := b.Object(oid)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, xerrors.Errorf("could not check object %s: %w", oid, err)
}

// WriteObject adds an object to the odb. This method can be called
// concurrently; writing an object that already exists is a no-op.
func (b *Backend) WriteObject(o *object.Object) (plumbing.Oid, error) {
	b.objectMu.Lock()
	defer b.objectMu.Unlock()

	oid := o.ID()

	found, err := b.hasObjectUnsafe(oid)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not check if object %s already exists: %w", oid, err)
	}
	if found {
		return oid, nil
	}

	data, err := o.Compress()
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not compress object %s: %w", oid, err)
	}

	p := b.looseObjectPath(oid.String())
	dest := filepath.Dir(p)
	if err := b.fs.MkdirAll(dest, 0o750); err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not create directory %s: %w", dest, err)
	}

	// Objects are read-only once written; only the content's hash ever
	// identifies it, so nothing should ever modify it in place.
	if err := afero.WriteFile(b.fs, p, data, 0o444); err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not persist object %s at path %s: %w", oid, p, err)
	}

	return oid, nil
}

func (b *Backend) hasObjectUnsafe(oid plumbing.Oid) (bool, error) {
	if _, found := b.cache.Get(oid); found {
		return true, nil
	}
	_, err := b.looseObject(oid)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, xerrors.Errorf("could not check object %s: %w", oid, err)
}
