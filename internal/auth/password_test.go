package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	passwords := []string{"secret1", "пароль-с-юникодом", strings.Repeat("x", 72)}

	for _, p := range passwords {
		hash, err := HashPassword(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)
		assert.True(t, CheckPasswordHash(p, hash), "password %q must verify", p)
	}
}

func TestCheckPasswordHash_SingleCharacterMutation(t *testing.T) {
	plain := "correct-horse"
	hash, err := HashPassword(plain)
	require.NoError(t, err)

	for i := range plain {
		mutated := []byte(plain)
		mutated[i] ^= 0x01
		assert.False(t, CheckPasswordHash(string(mutated), hash), "mutation at %d must not verify", i)
	}
	assert.False(t, CheckPasswordHash(plain+"!", hash))
	assert.False(t, CheckPasswordHash(plain[:len(plain)-1], hash))
}

func TestHashPassword_TruncatesAt72Bytes(t *testing.T) {
	base := strings.Repeat("a", 72)
	hash, err := HashPassword(base + "tail-one")
	require.NoError(t, err)

	// bcrypt видит только первые 72 байта
	assert.True(t, CheckPasswordHash(base+"tail-two", hash))
	assert.True(t, CheckPasswordHash(base, hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
}
