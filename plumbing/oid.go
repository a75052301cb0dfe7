// Package plumbing holds the low-level identifiers shared by every git
// object: the content-addressed Oid.
package plumbing

import (
	"crypto/sha1" //nolint:gosec // sha1 is git's object id algorithm, not used for security
	"encoding/hex"
	"errors"
)

// OidSize is the length of an Oid, in bytes.
const OidSize = 20

// HexSize is the length of the hexadecimal representation of an Oid.
const HexSize = OidSize * 2

var (
	// NullOid is the zero-value Oid. It never corresponds to a real object.
	NullOid = Oid{}

	// ErrInvalidOid is returned when a value cannot be parsed as an Oid.
	ErrInvalidOid = errors.New("invalid oid")
)

// Oid is the identity of a git object: the SHA-1 of its framed
// serialization (type, length, and payload; see object.New). It carries no
// notion of which kind of object (blob/tree/commit) it belongs to; that's
// tracked separately by whoever holds the Oid, and checked against the
// object's actual type when it's loaded from the database.
type Oid [OidSize]byte

// Bytes returns the raw 20 bytes of the Oid.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String returns the 40-character lowercase hex form of the Oid.
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero reports whether the Oid is the zero value.
func (o Oid) IsZero() bool {
	return o == NullOid
}

// NewOidFromContent returns the SHA-1 of the given bytes. Callers that want
// the Oid of an object must pass the framed serialization, not the raw
// payload.
func NewOidFromContent(framed []byte) Oid {
	return sha1.Sum(framed) //nolint:gosec // sha1 is git's object id algorithm
}

// NewOidFromBytes builds an Oid from 20 raw bytes, such as the bytes stored
// inline in a tree entry or index record.
func NewOidFromBytes(raw []byte) (Oid, error) {
	if len(raw) != OidSize {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], raw)
	return oid, nil
}

// NewOidFromHex parses a 40-character hex string into an Oid.
func NewOidFromHex(hexOid string) (Oid, error) {
	if len(hexOid) != HexSize {
		return NullOid, ErrInvalidOid
	}
	raw, err := hex.DecodeString(hexOid)
	if err != nil {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], raw)
	return oid, nil
}
