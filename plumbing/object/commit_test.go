package object_test

import (
	"testing"
	"time"

	"github.com/mlaplanche/vgit/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureRoundTrip(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("", -7*60*60)
	original := object.Signature{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Time:  time.Unix(1566115917, 0).In(loc),
	}

	parsed, err := object.NewSignatureFromBytes([]byte(original.String()))
	require.NoError(t, err)

	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.Email, parsed.Email)
	assert.True(t, original.Time.Equal(parsed.Time))
}

func TestSignatureFromBytesErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc string
		in   string
	}{
		{"missing name", "<ada@example.com> 1566115917 -0700"},
		{"missing email", "Ada Lovelace"},
		{"missing timestamp", "Ada Lovelace <ada@example.com>"},
		{"invalid timezone", "Ada Lovelace <ada@example.com> 1566115917 nope"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			_, err := object.NewSignatureFromBytes([]byte(tc.in))
			require.Error(t, err)
		})
	}
}

func TestSignatureIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, object.Signature{}.IsZero())
	assert.False(t, object.NewSignature("Ada", "ada@example.com").IsZero())
}

func TestNewCommitDefaultsCommitterToAuthor(t *testing.T) {
	t.Parallel()

	author := object.NewSignature("Ada Lovelace", "ada@example.com")
	tree := object.NewTree(nil)
	commit := object.NewCommit(tree, author, &object.CommitOptions{Message: "hi\n"})

	assert.Equal(t, author, commit.Committer())
	assert.Empty(t, commit.ParentIDs())
}
