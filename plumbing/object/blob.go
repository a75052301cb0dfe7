package object

import "github.com/mlaplanche/vgit/plumbing"

// Blob is the contents of a single file, with no name or mode attached
// (those live in the tree entry that points at it).
type Blob struct {
	rawObject *Object
}

// NewBlob wraps a raw Object as a Blob.
func NewBlob(o *Object) *Blob {
	return &Blob{rawObject: o}
}

// NewBlobFromContent creates a new, not-yet-persisted blob from its content.
func NewBlobFromContent(content []byte) *Blob {
	return NewBlob(New(TypeBlob, content))
}

// IsPersisted reports whether the blob has a computed, non-zero Oid.
func (b *Blob) IsPersisted() bool {
	return !b.rawObject.ID().IsZero()
}

// ID returns the blob's Oid.
func (b *Blob) ID() plumbing.Oid {
	return b.rawObject.ID()
}

// Bytes returns the blob's contents.
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// Size returns the size of the blob's contents, in bytes.
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// ToObject returns the Blob's underlying framed Object.
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
