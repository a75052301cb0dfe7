// Package object contains the three git object kinds this module works
// with (blob, tree, commit) and the framing shared by all of them.
package object

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/mlaplanche/vgit/internal/errutil"
	"github.com/mlaplanche/vgit/internal/readutil"
	"github.com/mlaplanche/vgit/plumbing"
	"golang.org/x/xerrors"
)

var (
	// ErrObjectUnknown is returned when parsing an object whose type header
	// isn't one of commit/tree/blob.
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrObjectInvalid is returned when an object contains unexpected data,
	// or the wrong kind of object is handed to a typed accessor.
	ErrObjectInvalid = errors.New("invalid object")

	// ErrTreeInvalid is returned when a tree object fails to parse.
	ErrTreeInvalid = errors.New("invalid tree")

	// ErrCommitInvalid is returned when a commit object fails to parse.
	ErrCommitInvalid = errors.New("invalid commit")
)

// Type is the kind of object stored in the database.
type Type int8

// The object kinds this module supports. Packfile delta types and tags
// aren't part of this module's scope.
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	default:
		panic(fmt.Sprintf("unknown object type %d", t))
	}
}

// IsValid reports whether t is one of the supported object kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob:
		return true
	default:
		return false
	}
}

// NewTypeFromString parses the type header of a serialized object.
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	default:
		return 0, ErrObjectUnknown
	}
}

// Object is the framed representation shared by every git object: a type
// header, a size, and a payload. Its Oid is the SHA-1 of that framing, not
// of the payload alone.
//
// https://git-scm.com/book/en/v2/Git-Internals-Git-Objects
type Object struct {
	id      plumbing.Oid
	typ     Type
	content []byte

	idOnce sync.Once
}

// New creates a new object of the given type around the given payload. The
// Oid is computed lazily, on first call to ID.
func New(typ Type, content []byte) *Object {
	return &Object{typ: typ, content: content}
}

// ID returns the object's Oid, computing it on first call.
func (o *Object) ID() plumbing.Oid {
	o.idOnce.Do(func() {
		o.id, _ = o.frame()
	})
	return o.id
}

// Size returns the length of the object's payload.
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the object's kind.
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's raw payload.
func (o *Object) Bytes() []byte {
	return o.content
}

// frame serializes the object as "{type} {size}\0{payload}" and returns its
// Oid alongside the framed bytes.
func (o *Object) frame() (oid plumbing.Oid, framed []byte) {
	// bytes.Buffer's Write* methods never fail; the error return is always nil.
	w := new(bytes.Buffer)
	w.WriteString(o.Type().String())
	w.WriteByte(' ')
	w.WriteString(strconv.Itoa(o.Size()))
	w.WriteByte(0)
	w.Write(o.content)

	framed = w.Bytes()
	return plumbing.NewOidFromContent(framed), framed
}

// Compress returns the object zlib-compressed, ready to be written to the
// loose object store.
func (o *Object) Compress() (data []byte, err error) {
	_, framed := o.frame()

	compressed := new(bytes.Buffer)
	// The writer must be closed before compressed is read: Close flushes
	// the final deflate block and the zlib checksum.
	err = func() (err error) {
		zw := zlib.NewWriter(compressed)
		defer errutil.Close(zw, &err)
		_, err = zw.Write(framed)
		return err
	}()
	if err != nil {
		return nil, xerrors.Errorf("could not zlib the object: %w", err)
	}
	return compressed.Bytes(), nil
}

// AsBlob views the object as a Blob.
func (o *Object) AsBlob() *Blob {
	return NewBlob(o)
}

// AsTree parses the object as a Tree.
//
// A tree is a back-to-back sequence of entries, each shaped as:
// {octal_mode} {path_name}\0{20-byte oid}
func (o *Object) AsTree() (*Tree, error) {
	if o.typ != TypeTree {
		return nil, xerrors.Errorf("type %s is not a tree: %w", o.typ, ErrObjectInvalid)
	}

	entries := []TreeEntry{}
	objData := o.Bytes()
	offset := 0
	for i := 1; offset < len(objData); i++ {
		entry := TreeEntry{}
		data := readutil.ReadTo(objData[offset:], ' ')
		if len(data) == 0 {
			return nil, xerrors.Errorf("could not retrieve the mode of entry %d: %w", i, ErrTreeInvalid)
		}
		offset += len(data) + 1
		mode, err := strconv.ParseInt(string(data), 8, 32)
		if err != nil {
			return nil, xerrors.Errorf("could not parse mode of entry %d: %w", i, err)
		}
		entry.Mode = TreeObjectMode(mode)

		data = readutil.ReadTo(objData[offset:], 0)
		if len(data) == 0 {
			return nil, xerrors.Errorf("could not retrieve the path of entry %d: %w", i, ErrTreeInvalid)
		}
		offset += len(data) + 1
		entry.Name = string(data)

		if offset+plumbing.OidSize > len(objData) {
			return nil, xerrors.Errorf("not enough space to retrieve the oid of entry %d: %w", i, ErrTreeInvalid)
		}
		entry.ID, err = plumbing.NewOidFromBytes(objData[offset : offset+plumbing.OidSize])
		if err != nil {
			return nil, xerrors.Errorf("invalid oid for entry %d: %w", i, ErrTreeInvalid)
		}
		offset += plumbing.OidSize

		entries = append(entries, entry)
	}

	return newTreeFromObject(o, entries), nil
}

// AsCommit parses the object as a Commit.
//
// A commit is a sequence of header lines followed by a blank line and the
// commit message:
//
//	tree {oid}
//	parent {oid}
//	author {name} <{email}> {seconds} {tz}
//	committer {name} <{email}> {seconds} {tz}
//	gpgsig -----BEGIN PGP SIGNATURE-----
//	 {key, folded over multiple lines}
//	 -----END PGP SIGNATURE-----
//	{blank line}
//	{message}
//
// A commit may have 0 parents (the root of a history), 1 (a regular
// commit), or more (a merge). gpgsig is optional.
func (o *Object) AsCommit() (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, xerrors.Errorf("type %s is not a commit: %w", o.typ, ErrObjectInvalid)
	}
	ci := &Commit{rawObject: o}
	offset := 0
	objData := o.Bytes()
	for {
		line := readutil.ReadTo(objData[offset:], '\n')
		offset += len(line) + 1

		if len(line) == 0 && offset == 1 {
			return nil, xerrors.Errorf("could not find commit first line: %w", ErrCommitInvalid)
		}
		if len(line) == 0 {
			if offset < len(objData) {
				ci.message = string(objData[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		var err error
		switch string(kv[0]) {
		case "tree":
			ci.treeID, err = plumbing.NewOidFromHex(string(kv[1]))
			if err != nil {
				return nil, xerrors.Errorf("could not parse tree id %q: %w", kv[1], err)
			}
		case "parent":
			oid, perr := plumbing.NewOidFromHex(string(kv[1]))
			if perr != nil {
				return nil, xerrors.Errorf("could not parse parent id %q: %w", kv[1], perr)
			}
			ci.parentIDs = append(ci.parentIDs, oid)
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse author signature %q: %w", kv[1], err)
			}
		case "committer":
			ci.committer, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse committer signature %q: %w", kv[1], err)
			}
		case "gpgsig":
			begin := string(kv[1]) + "\n"
			end := "-----END PGP SIGNATURE-----"
			i := bytes.Index(objData[offset:], []byte(end))
			if i < 0 {
				return nil, xerrors.Errorf("gpgsig missing its footer: %w", ErrCommitInvalid)
			}
			ci.gpgSig = begin + string(objData[offset:offset+i]) + end
			offset += len(end) + i + 1
		}
	}

	if ci.author.IsZero() {
		return nil, xerrors.Errorf("commit has no author: %w", ErrCommitInvalid)
	}
	if ci.treeID.IsZero() {
		return nil, xerrors.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}

	return ci, nil
}
