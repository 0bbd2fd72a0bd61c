package hasher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cargohub/authcore/pkg/hasher"
)

func newHasher(t *testing.T, pepper string) *hasher.Hasher {
	t.Helper()
	h, err := hasher.New(hasher.Config{Pepper: pepper, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return h
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires pepper", func(t *testing.T) {
		t.Parallel()
		_, err := hasher.New(hasher.Config{})
		assert.ErrorIs(t, err, hasher.ErrMissingPepper)
	})

	t.Run("rejects cost out of range", func(t *testing.T) {
		t.Parallel()
		_, err := hasher.New(hasher.Config{Pepper: "p", BcryptCost: 99})
		assert.ErrorIs(t, err, hasher.ErrInvalidCost)
	})

	t.Run("zero cost uses default", func(t *testing.T) {
		t.Parallel()
		h, err := hasher.New(hasher.Config{Pepper: "p"})
		require.NoError(t, err)
		require.NotNil(t, h)
	})

	t.Run("must new panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { hasher.MustNew(hasher.Config{}) })
	})
}

func TestPassword(t *testing.T) {
	t.Parallel()
	h := newHasher(t, "pepper-one")

	digest, err := h.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", digest)

	t.Run("verifies matching password", func(t *testing.T) {
		t.Parallel()
		assert.True(t, h.VerifyPassword("correct horse", digest))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		t.Parallel()
		assert.False(t, h.VerifyPassword("wrong horse", digest))
	})

	t.Run("salted", func(t *testing.T) {
		t.Parallel()
		other, err := h.HashPassword("correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, digest, other)
	})

	t.Run("bound to pepper", func(t *testing.T) {
		t.Parallel()
		rotated := newHasher(t, "pepper-two")
		assert.False(t, rotated.VerifyPassword("correct horse", digest))
	})

	t.Run("long passwords are accepted", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", 200)
		d, err := h.HashPassword(long)
		require.NoError(t, err)
		assert.True(t, h.VerifyPassword(long, d))
		assert.False(t, h.VerifyPassword(long[:199], d))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		_, err := h.HashPassword("")
		assert.ErrorIs(t, err, hasher.ErrEmptyInput)
		assert.False(t, h.VerifyPassword("", digest))
	})
}

func TestCode(t *testing.T) {
	t.Parallel()
	h := newHasher(t, "pepper")

	digest, err := h.HashCode("042133")
	require.NoError(t, err)

	assert.True(t, h.VerifyCode("042133", digest))
	assert.False(t, h.VerifyCode("042134", digest))
	// the stored digest used as plaintext never verifies
	assert.False(t, h.VerifyCode(digest, digest))
}

func TestVerify_MalformedDigest(t *testing.T) {
	t.Parallel()
	h := newHasher(t, "pepper")

	for _, digest := range []string{"", "not-a-hash", "$2a$04$short", strings.Repeat("x", 80)} {
		assert.False(t, h.VerifyPassword("secret", digest))
		assert.False(t, h.VerifyCode("123456", digest))
	}
}

func TestKeyed(t *testing.T) {
	t.Parallel()
	h := newHasher(t, "pepper")

	a := h.Keyed("token")
	assert.Len(t, a, 64)
	assert.Equal(t, a, h.Keyed("token"))
	assert.NotEqual(t, a, h.Keyed("token2"))
	assert.NotEqual(t, a, newHasher(t, "other").Keyed("token"))
	assert.True(t, hasher.EqualKeyed(a, h.Keyed("token")))
	assert.False(t, hasher.EqualKeyed(a, "token"))
}
