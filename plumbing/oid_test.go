package plumbing_test

import (
	"testing"

	"github.com/mlaplanche/vgit/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOidFromHex(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc        string
		hex         string
		expectError bool
	}{
		{
			desc: "valid oid should work",
			hex:  "0eaf966ff79d8f61958aaefe163620d952606516",
		},
		{
			desc:        "too short should fail",
			hex:         "0eaf96",
			expectError: true,
		},
		{
			desc:        "too long should fail",
			hex:         "0eaf966ff79d8f61958aaefe163620d9526065160eaf966ff79d8f61958aaef",
			expectError: true,
		},
		{
			desc:        "non-hex chars should fail",
			hex:         "zzaf966ff79d8f61958aaefe163620d95260651",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			oid, err := plumbing.NewOidFromHex(tc.hex)
			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, plumbing.ErrInvalidOid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hex, oid.String())
		})
	}
}

func TestNewOidFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("20 bytes should work", func(t *testing.T) {
		t.Parallel()

		raw := make([]byte, plumbing.OidSize)
		for i := range raw {
			raw[i] = byte(i)
		}
		oid, err := plumbing.NewOidFromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, oid.Bytes())
	})

	t.Run("wrong length should fail", func(t *testing.T) {
		t.Parallel()

		_, err := plumbing.NewOidFromBytes([]byte{1, 2, 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, plumbing.ErrInvalidOid)
	})
}

func TestNewOidFromContent(t *testing.T) {
	t.Parallel()

	// known git blob hash for a 0-byte blob: "blob 0\0"
	oid := plumbing.NewOidFromContent([]byte("blob 0\x00"))
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", oid.String())
}

func TestOidIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, plumbing.NullOid.IsZero())

	oid, err := plumbing.NewOidFromHex("0eaf966ff79d8f61958aaefe163620d952606516")
	require.NoError(t, err)
	assert.False(t, oid.IsZero())
}
