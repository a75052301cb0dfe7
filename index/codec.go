package index

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/mlaplanche/vgit/internal/readutil"
	"golang.org/x/xerrors"
)

// sig is the 4-byte signature every index file begins with.
var sig = [4]byte{'D', 'I', 'R', 'C'}

// supportedVersion is the only index format version this module reads or
// writes.
const supportedVersion uint32 = 2

// checksumLen is the length of the trailing SHA-1 checksum.
const checksumLen = 20

// ErrMissingSignature is returned when a file doesn't start with "DIRC".
var ErrMissingSignature = errors.New("index: missing DIRC signature")

// ErrIncorrectChecksum is returned when the trailing checksum doesn't match
// the hash of the bytes that precede it.
var ErrIncorrectChecksum = errors.New("index: checksum mismatch")

// ErrUnsupportedVersion is returned when the index file declares a version
// other than 2.
type ErrUnsupportedVersion struct {
	Version uint32
}

func (e *ErrUnsupportedVersion) Error() string {
	return "index: unsupported version"
}

// decodeEntries parses a full index file (signature through checksum) and
// returns its entries keyed by path.
func decodeEntries(r io.Reader) (map[string]Entry, error) {
	digest := readutil.NewDigestReader(r)

	var gotSig [4]byte
	if _, err := io.ReadFull(digest, gotSig[:]); err != nil {
		return nil, xerrors.Errorf("could not read signature: %w", err)
	}
	if gotSig != sig {
		return nil, ErrMissingSignature
	}

	var header [8]byte
	if _, err := io.ReadFull(digest, header[:]); err != nil {
		return nil, xerrors.Errorf("could not read header: %w", err)
	}
	version := binary.BigEndian.Uint32(header[0:4])
	if version != supportedVersion {
		return nil, &ErrUnsupportedVersion{Version: version}
	}
	count := binary.BigEndian.Uint32(header[4:8])

	entries := make(map[string]Entry, count)
	for i := uint32(0); i < count; i++ {
		entry, err := readEntry(digest)
		if err != nil {
			return nil, xerrors.Errorf("could not read entry %d: %w", i, err)
		}
		entries[entry.Key()] = entry
	}

	expected := digest.Sum()

	// Read the trailing checksum straight from r, bypassing digest: it
	// must not itself be folded into the running hash.
	var actual [checksumLen]byte
	if _, err := io.ReadFull(r, actual[:]); err != nil {
		return nil, xerrors.Errorf("could not read checksum: %w", err)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return nil, ErrIncorrectChecksum
		}
	}

	return entries, nil
}

// encodeEntries writes the full index file format: signature, header,
// sorted entries, and a trailing SHA-1 checksum of everything before it.
// entries must already be in ascending path order.
func encodeEntries(w io.Writer, entries []Entry) error {
	digest := readutil.NewDigestWriter(w)

	if _, err := digest.Write(sig[:]); err != nil {
		return xerrors.Errorf("could not write signature: %w", err)
	}

	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], supportedVersion)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(entries))) //nolint:gosec // index entry counts fit in 32 bits
	if _, err := digest.Write(header[:]); err != nil {
		return xerrors.Errorf("could not write header: %w", err)
	}

	for _, entry := range entries {
		if err := entry.writeTo(digest); err != nil {
			return xerrors.Errorf("could not write entry %s: %w", entry.Path, err)
		}
	}

	if _, err := w.Write(digest.Sum()); err != nil {
		return xerrors.Errorf("could not write checksum: %w", err)
	}
	return nil
}
