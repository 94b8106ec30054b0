package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("abcdefg123")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdefg123", hash)

	assert.NoError(t, h.Verify(hash, "abcdefg123"))
	assert.True(t, errors.Is(h.Verify(hash, "wrong-pass1"), ErrMismatch))
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("samepassword1")
	require.NoError(t, err)
	b, err := h.Hash("samepassword1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	err := h.Verify("not-a-hash", "abcdefg123")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMismatch))
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}
