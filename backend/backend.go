// Package backend contains interfaces and implementations to store and
// retrieve objects from the object database.
package backend

import (
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/plumbing/object"
)

// Backend represents an object that can store and retrieve objects from
// and to the object database.
type Backend interface {
	// Init creates the on-disk layout a fresh repository needs
	// (object directories, default config).
	Init() error

	// Object returns the object with the given oid.
	Object(oid plumbing.Oid) (*object.Object, error)
	// HasObject returns whether an object exists in the odb.
	HasObject(oid plumbing.Oid) (bool, error)
	// WriteObject adds an object to the odb. Writing an object that
	// already exists is a no-op that returns its existing oid.
	WriteObject(o *object.Object) (plumbing.Oid, error)
}
