package readutil

import (
	"crypto/sha1" //nolint:gosec // sha1 is git's index/object checksum algorithm
	"hash"
	"io"
)

// DigestReader wraps a reader and keeps a running SHA-1 digest of every byte
// read through it, the way the index codec needs to compute the trailing
// checksum without buffering the whole file in memory.
type DigestReader struct {
	r io.Reader
	h hash.Hash
}

// NewDigestReader wraps r with a running SHA-1 digest.
func NewDigestReader(r io.Reader) *DigestReader {
	return &DigestReader{r: r, h: sha1.New()} //nolint:gosec
}

// Read implements io.Reader, feeding every byte read into the digest.
func (d *DigestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
	}
	return n, err
}

// Sum returns the SHA-1 digest of everything read so far.
func (d *DigestReader) Sum() []byte {
	return d.h.Sum(nil)
}

// DigestWriter wraps a writer and keeps a running SHA-1 digest of every
// byte written through it.
type DigestWriter struct {
	w io.Writer
	h hash.Hash
}

// NewDigestWriter wraps w with a running SHA-1 digest.
func NewDigestWriter(w io.Writer) *DigestWriter {
	return &DigestWriter{w: w, h: sha1.New()} //nolint:gosec
}

// Write implements io.Writer, feeding every byte written into the digest.
func (d *DigestWriter) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	if n > 0 {
		d.h.Write(p[:n])
	}
	return n, err
}

// Sum returns the SHA-1 digest of everything written so far.
func (d *DigestWriter) Sum() []byte {
	return d.h.Sum(nil)
}
