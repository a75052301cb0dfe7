package vgit

import (
	"sort"

	"github.com/mlaplanche/vgit/backend"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/mlaplanche/vgit/workspace"
	"golang.org/x/xerrors"
)

// treeEntryDesc describes one staged file to be placed into the tree
// being built: its path, the blob it points at, and its mode.
type treeEntryDesc struct {
	path workspace.Path
	oid  plumbing.Oid
	mode workspace.Mode
}

// treeNode is one slot in the builder's arena: either a staged file, or a
// reference to another slot holding a nested tree.
type treeNode struct {
	isSubtree bool
	subtree   int
	oid       plumbing.Oid
	mode      workspace.Mode
}

// treeBuilder assembles a nested tree object out of a flat list of staged
// paths. It holds an arena of directory frames, one per directory
// encountered, and links parents to children by index as they're
// discovered; the whole arena is then serialized bottom-up starting from
// the root.
type treeBuilder struct {
	// trees[i] is the set of name -> treeNode entries at arena slot i.
	// trees[0] is the root.
	trees []map[string]treeNode
}

// newTreeBuilder starts a builder with an empty root.
func newTreeBuilder() *treeBuilder {
	return &treeBuilder{trees: []map[string]treeNode{{}}}
}

// add places one file into the builder, creating any intermediate
// directory frames it needs.
func (b *treeBuilder) add(desc treeEntryDesc) {
	parent := 0
	for _, name := range desc.path.Parent().Components() {
		next, ok := b.trees[parent][name]
		var nextIdx int
		switch {
		case ok && next.isSubtree:
			nextIdx = next.subtree
		case ok:
			panic("directory has same name as a staged file: " + name)
		default:
			b.trees = append(b.trees, map[string]treeNode{})
			nextIdx = len(b.trees) - 1
		}
		b.trees[parent][name] = treeNode{isSubtree: true, subtree: nextIdx}
		parent = nextIdx
	}

	b.trees[parent][desc.path.Name()] = treeNode{mode: desc.mode, oid: desc.oid}
}

// store recursively serializes and stores every directory frame, starting
// from the root, and returns the root tree's oid.
func (b *treeBuilder) store(objects backend.Backend) (plumbing.Oid, error) {
	return b.storeSubtree(objects, 0)
}

func (b *treeBuilder) storeSubtree(objects backend.Backend, idx int) (plumbing.Oid, error) {
	frame := b.trees[idx]

	names := make([]string, 0, len(frame))
	for name := range frame {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]object.TreeEntry, 0, len(frame))
	for _, name := range names {
		node := frame[name]
		if node.isSubtree {
			oid, err := b.storeSubtree(objects, node.subtree)
			if err != nil {
				return plumbing.NullOid, err
			}
			entries = append(entries, object.TreeEntry{
				Name: name,
				ID:   oid,
				Mode: object.ModeDirectory,
			})
			continue
		}
		entries = append(entries, object.TreeEntry{
			Name: name,
			ID:   node.oid,
			Mode: treeObjectModeFor(node.mode),
		})
	}

	tree := object.NewTree(entries)
	oid, err := objects.WriteObject(tree.ToObject())
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not store tree: %w", err)
	}
	return oid, nil
}

func treeObjectModeFor(m workspace.Mode) object.TreeObjectMode {
	if m == workspace.ModeExecutable {
		return object.ModeExecutable
	}
	return object.ModeFile
}
