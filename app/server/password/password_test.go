package password

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsLowWorkFactor(t *testing.T) {
	_, err := New(SchemeBcrypt, 9)
	require.ErrorIs(t, err, ErrWorkFactorTooLow)

	_, err = New("md5", MinWorkFactor)
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestHashVerify_Bcrypt(t *testing.T) {
	h, err := New(SchemeBcrypt, MinWorkFactor)
	require.NoError(t, err)

	trials, batches := 1000, 10
	if testing.Short() {
		trials = 20
	}

	// 分批并行，单个哈希器可并发使用
	per := trials / batches
	for b := 0; b < batches; b++ {
		b := b
		t.Run(fmt.Sprintf("batch-%d", b), func(t *testing.T) {
			t.Parallel()

			for i := b * per; i < (b+1)*per; i++ {
				secret := fmt.Sprintf("s3cret!-%d", i)

				hashed, err := h.Hash(secret)
				require.NoError(t, err)
				require.True(t, strings.HasPrefix(hashed, "$2a$"))
				require.NotContains(t, hashed, secret)

				ok, err := h.Verify(secret, hashed)
				require.NoError(t, err)
				require.True(t, ok, "trial %d", i)
			}
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	h, err := New(SchemeBcrypt, MinWorkFactor)
	require.NoError(t, err)

	hashed, err := h.Hash("s3cret!")
	require.NoError(t, err)

	ok, err := h.Verify("wrong", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_Salted(t *testing.T) {
	h, err := New(SchemeBcrypt, MinWorkFactor)
	require.NoError(t, err)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerify_Argon2idAndCrossScheme(t *testing.T) {
	argon, err := New(SchemeArgon2id, MinWorkFactor)
	require.NoError(t, err)
	assert.Equal(t, SchemeArgon2id, argon.Scheme())

	hashed, err := argon.Hash("s3cret!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hashed, "$argon2id$"))

	ok, err := argon.Verify("s3cret!", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	// 切换回 bcrypt 后旧的 argon2id 哈希仍然可以校验
	bc, err := New(SchemeBcrypt, MinWorkFactor)
	require.NoError(t, err)

	ok, err = bc.Verify("s3cret!", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bc.Verify("wrong", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedHash(t *testing.T) {
	h, err := New(SchemeBcrypt, MinWorkFactor)
	require.NoError(t, err)

	for _, hashed := range []string{
		"",
		"plaintext",
		"$2a$10$short",
		"$argon2id$v=19$broken",
	} {
		ok, err := h.Verify("s3cret!", hashed)
		assert.False(t, ok, hashed)
		assert.ErrorIs(t, err, ErrMalformedHash, hashed)
	}
}
