// Package index implements the git index: the staging area recording, for
// every tracked path, the blob it points at and the stat info last
// observed for it on disk.
package index

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/mlaplanche/vgit/plumbing"
	"github.com/mlaplanche/vgit/workspace"
	"golang.org/x/xerrors"
)

// regularFileMode and executableFileMode are the only two modes an index
// entry can carry; git's index format always stores a full object mode
// even though it's derived from workspace.Mode's two-valued executable bit.
const (
	regularFileMode    uint32 = 0o100644
	executableFileMode uint32 = 0o100755
)

func modeToU32(m workspace.Mode) uint32 {
	if m == workspace.ModeExecutable {
		return executableFileMode
	}
	return regularFileMode
}

func modeFromU32(m uint32) workspace.Mode {
	if m == executableFileMode {
		return workspace.ModeExecutable
	}
	return workspace.ModeRegular
}

func epochParts(t time.Time) (sec, nsec uint32) {
	return uint32(t.Unix()), uint32(t.Nanosecond()) //nolint:gosec // truncation matches git's 32-bit index fields
}

func epochToTime(sec, nsec uint32) time.Time {
	return time.Unix(int64(sec), int64(nsec))
}

// pathOffset is the byte offset of the path field within a serialized
// entry; everything before it is the fixed-size record.
const pathOffset = 62

// blockSize is the alignment boundary entries are padded to.
const blockSize = 8

// maxInlinePathLen is the largest path length the 12-bit flags field can
// record exactly; longer paths still work but their length is clamped to
// this sentinel value in the flags.
const maxInlinePathLen = 0xfff

// Entry is a single staged file: its path, the oid of its blob, and the
// stat info observed when it was staged.
type Entry struct {
	Oid  plumbing.Oid
	Stat workspace.Stat
	Path workspace.Path
}

// NewEntry builds an Entry for a freshly staged file.
func NewEntry(path workspace.Path, oid plumbing.Oid, stat workspace.Stat) Entry {
	return Entry{Oid: oid, Stat: stat, Path: path}
}

// Key is the entry's lookup key in the index: its path string.
func (e Entry) Key() string {
	return e.Path.String()
}

func flagsFor(path workspace.Path) uint16 {
	n := len(path.String())
	if n > maxInlinePathLen {
		n = maxInlinePathLen
	}
	return uint16(n) //nolint:gosec // n clamped to 0xfff above
}

// writeTo serializes the entry in the on-disk record format:
//
//	ctime_sec, ctime_nsec, mtime_sec, mtime_nsec,
//	dev, ino, mode, uid, gid, size    (10 x uint32, offsets 0-39)
//	oid                               (20 bytes, offset 40)
//	flags                             (uint16, offset 60)
//	path + NUL, padded to a multiple of 8 bytes measured from offset 0
func (e Entry) writeTo(w io.Writer) error {
	var fixed [pathOffset]byte
	ctimeSec, ctimeNsec := epochParts(e.Stat.Ctime)
	mtimeSec, mtimeNsec := epochParts(e.Stat.Mtime)

	binary.BigEndian.PutUint32(fixed[0:4], ctimeSec)
	binary.BigEndian.PutUint32(fixed[4:8], ctimeNsec)
	binary.BigEndian.PutUint32(fixed[8:12], mtimeSec)
	binary.BigEndian.PutUint32(fixed[12:16], mtimeNsec)
	binary.BigEndian.PutUint32(fixed[16:20], e.Stat.Dev)
	binary.BigEndian.PutUint32(fixed[20:24], e.Stat.Ino)
	binary.BigEndian.PutUint32(fixed[24:28], modeToU32(e.Stat.Mode))
	binary.BigEndian.PutUint32(fixed[28:32], e.Stat.UID)
	binary.BigEndian.PutUint32(fixed[32:36], e.Stat.GID)
	binary.BigEndian.PutUint32(fixed[36:40], e.Stat.Size)
	copy(fixed[40:60], e.Oid.Bytes())
	binary.BigEndian.PutUint16(fixed[60:62], flagsFor(e.Path))

	if _, err := w.Write(fixed[:]); err != nil {
		return err
	}

	path := e.Path.String()
	if _, err := io.WriteString(w, path); err != nil {
		return err
	}
	padding := paddingSize(len(path))
	var zeros [blockSize]byte
	_, err := w.Write(zeros[:padding])
	return err
}

// paddingSize returns the number of NUL bytes needed after a path (which
// includes the path's own terminating NUL) to align the record to
// blockSize, measured from the start of the record.
func paddingSize(pathLen int) int {
	total := pathOffset + pathLen
	pad := blockSize - (total % blockSize)
	if pad == 0 {
		pad = blockSize
	}
	return pad
}

// readEntry parses one serialized entry.
func readEntry(r io.Reader) (Entry, error) {
	var fixed [pathOffset]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Entry{}, err
	}

	stat := workspace.Stat{
		Ctime: epochToTime(binary.BigEndian.Uint32(fixed[0:4]), binary.BigEndian.Uint32(fixed[4:8])),
		Mtime: epochToTime(binary.BigEndian.Uint32(fixed[8:12]), binary.BigEndian.Uint32(fixed[12:16])),
		Dev:   binary.BigEndian.Uint32(fixed[16:20]),
		Ino:   binary.BigEndian.Uint32(fixed[20:24]),
		Mode:  modeFromU32(binary.BigEndian.Uint32(fixed[24:28])),
		UID:   binary.BigEndian.Uint32(fixed[28:32]),
		GID:   binary.BigEndian.Uint32(fixed[32:36]),
		Size:  binary.BigEndian.Uint32(fixed[36:40]),
	}

	oid, err := plumbing.NewOidFromBytes(fixed[40:60])
	if err != nil {
		return Entry{}, xerrors.Errorf("invalid entry oid: %w", err)
	}

	// flags (fixed[60:62]) only carries the path length for entries this
	// module writes; it's not otherwise interpreted on read.

	var pathBytes []byte
	for {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Entry{}, err
		}
		if b[0] == 0 {
			break
		}
		pathBytes = append(pathBytes, b[0])
	}

	padding := paddingSize(len(pathBytes))
	// one NUL byte already consumed above
	if padding > 1 {
		var discard [blockSize]byte
		if _, err := io.ReadFull(r, discard[:padding-1]); err != nil {
			return Entry{}, err
		}
	}

	return Entry{
		Oid:  oid,
		Stat: stat,
		Path: workspace.NewPath(string(pathBytes)),
	}, nil
}
