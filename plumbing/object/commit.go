package object

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/mlaplanche/vgit/internal/readutil"
	"github.com/mlaplanche/vgit/plumbing"
	"github.com/pkg/errors"
)

// Signature represents the author or committer of a commit: who made it,
// and when.
type Signature struct {
	Name  string
	Email string
	Time  time.Time
}

// String formats the signature the way it appears in a commit object:
// "Name <email> seconds tz".
func (s Signature) String() string {
	return s.Name + " <" + s.Email + "> " + strconv.FormatInt(s.Time.Unix(), 10) + " " + s.Time.Format("-0700")
}

// IsZero reports whether the signature is the zero value.
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature builds a signature timestamped at the current moment.
func NewSignature(name, email string) Signature {
	return Signature{Name: name, Email: email, Time: time.Now()}
}

// NewSignatureFromBytes parses a signature line.
//
// A signature has the form:
//
//	User Name <user.email@domain.tld> timestamp timezone
//
// e.g. "Ada Lovelace <ada@example.com> 1566115917 -0700".
func NewSignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature

	data := readutil.ReadTo(b, '<')
	if len(data) == 0 {
		return sig, errors.New("couldn't retrieve the name")
	}
	sig.Name = strings.TrimSpace(string(data))
	offset := len(data) + 1 // skip "<"
	if offset >= len(b) {
		return sig, errors.New("signature stopped after the name")
	}

	data = readutil.ReadTo(b[offset:], '>')
	if len(data) == 0 {
		return sig, errors.New("couldn't retrieve the email")
	}
	sig.Email = string(data)
	offset += len(data) + 2 // skip "> "
	if offset >= len(b) {
		return sig, errors.New("signature stopped after the email")
	}

	timestamp := readutil.ReadTo(b[offset:], ' ')
	if len(timestamp) == 0 {
		return sig, errors.New("couldn't retrieve the timestamp")
	}
	offset += len(timestamp) + 1 // skip " "
	if offset >= len(b) {
		return sig, errors.New("signature stopped after the timestamp")
	}

	t, err := strconv.ParseInt(string(timestamp), 10, 64)
	if err != nil {
		return sig, errors.Wrapf(err, "invalid timestamp %s", timestamp)
	}
	sig.Time = time.Unix(t, 0)

	timezone := b[offset:]
	tz, err := time.Parse("-0700", string(timezone))
	if err != nil {
		return sig, errors.Wrapf(err, "invalid timezone format %s", timezone)
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// CommitOptions holds the optional pieces of a new commit.
type CommitOptions struct {
	ParentIDs []plumbing.Oid
	Message   string
	GPGSig    string
	// Committer defaults to Author when left as the zero value.
	Committer Signature
}

// Commit is a git commit object: a pointer to a tree plus history and
// authorship metadata.
type Commit struct {
	rawObject *Object

	author    Signature
	committer Signature

	gpgSig  string
	message string

	parentIDs []plumbing.Oid
	treeID    plumbing.Oid
}

// NewCommit creates a new, not-yet-persisted Commit pointing at tree.
func NewCommit(tree *Tree, author Signature, opts *CommitOptions) *Commit {
	c := &Commit{
		treeID:    tree.ID(),
		author:    author,
		committer: opts.Committer,
		message:   opts.Message,
		parentIDs: opts.ParentIDs,
		gpgSig:    opts.GPGSig,
	}
	if c.committer.IsZero() {
		c.committer = author
	}
	c.rawObject = c.toObject()
	return c
}

// ID returns the commit's Oid.
func (c *Commit) ID() plumbing.Oid {
	return c.rawObject.ID()
}

// Author returns the signature of whoever made the changes.
func (c *Commit) Author() Signature {
	return c.author
}

// Committer returns the signature of whoever created the commit.
func (c *Commit) Committer() Signature {
	return c.committer
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns the Oids of the commit's parents, if any.
//   - The root commit of a history has 0 parents.
//   - A regular commit has 1.
//   - A merge commit has 2 or more.
func (c *Commit) ParentIDs() []plumbing.Oid {
	out := make([]plumbing.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// TreeID returns the Oid of the commit's tree.
func (c *Commit) TreeID() plumbing.Oid {
	return c.treeID
}

// GPGSig returns the commit's GPG signature, if any.
func (c *Commit) GPGSig() string {
	return c.gpgSig
}

// ToObject returns the commit's underlying framed Object.
func (c *Commit) ToObject() *Object {
	return c.rawObject
}

func (c *Commit) toObject() *Object {
	// bytes.Buffer's Write* methods never fail; the error return is always nil.
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	for _, p := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.committer.String())
	buf.WriteByte('\n')

	if c.gpgSig != "" {
		buf.WriteString("gpgsig ")
		buf.WriteString(c.gpgSig)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.WriteString(c.message)
	return New(TypeCommit, buf.Bytes())
}
