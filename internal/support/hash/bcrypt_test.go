package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hashed, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, IsBcrypt(hashed))
	assert.NoError(t, h.Compare(hashed, "hunter2"))
	assert.ErrorIs(t, h.Compare(hashed, "hunter3"), ErrPasswordMismatch)
}

func TestNewBcryptHasherRejectsCost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	hashed, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.True(t, Matches(h, hashed, "s3cret"))
	assert.False(t, Matches(h, hashed, "S3cret"))
	assert.True(t, Matches(h, "plain", "plain"))
	assert.False(t, Matches(h, "plain", "plain "))
	assert.False(t, Matches(h, "", ""))
}
