package object

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/mlaplanche/vgit/plumbing"
)

// TreeObjectMode is the mode of an entry inside a tree. Non-standard modes
// are not supported.
type TreeObjectMode int32

const (
	// ModeFile is a regular, non-executable file.
	ModeFile TreeObjectMode = 0o100644
	// ModeExecutable is an executable file.
	ModeExecutable TreeObjectMode = 0o100755
	// ModeDirectory is a sub-tree.
	ModeDirectory TreeObjectMode = 0o040000
)

// IsValid reports whether m is a mode this module knows how to serialize.
func (m TreeObjectMode) IsValid() bool {
	switch m {
	case ModeFile, ModeExecutable, ModeDirectory:
		return true
	default:
		return false
	}
}

// ObjectType returns the kind of object a mode points at.
func (m TreeObjectMode) ObjectType() Type {
	if m == ModeDirectory {
		return TypeTree
	}
	return TypeBlob
}

// Tree is a git tree object: an ordered mapping from name to child, where
// each child is either a file (pointing at a Blob) or a sub-tree (pointing
// at another Tree).
type Tree struct {
	rawObject *Object
	// entries is kept immutable and sorted by Name once the Tree exists.
	entries []TreeEntry
}

// TreeEntry is a single child of a Tree.
type TreeEntry struct {
	Name string
	ID   plumbing.Oid
	Mode TreeObjectMode
}

// NewTree builds a Tree from its entries, serializing them in sorted order.
// Entries are NOT required to already be sorted; NewTree sorts defensively
// so that two trees built from the same logical set of entries, in any
// order, always produce the same Oid.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	t := &Tree{entries: sorted}
	t.rawObject = t.toObject()
	return t
}

// newTreeFromObject wraps an already-parsed, already-framed object. Entries
// come from AsTree, which reads them in on-disk order (which is always
// sorted for any tree this module wrote, and is trusted as-is for trees
// read from elsewhere).
func newTreeFromObject(o *Object, entries []TreeEntry) *Tree {
	return &Tree{rawObject: o, entries: entries}
}

// Entries returns a copy of the tree's entries, in sorted order.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Entry looks up a direct child by name.
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// ID returns the tree's Oid.
func (t *Tree) ID() plumbing.Oid {
	return t.rawObject.ID()
}

// ToObject returns the tree's underlying framed Object.
func (t *Tree) ToObject() *Object {
	return t.rawObject
}

// toObject serializes the tree's entries into the framed object form:
// back-to-back {octal_mode} {name}\0{20-byte oid} records, in ascending
// name-byte order.
func (t *Tree) toObject() *Object {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}
	return New(TypeTree, buf.Bytes())
}
