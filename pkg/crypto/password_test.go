package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "pbkdf2:sha256:"))
	assert.True(t, CheckPassword("Sup3rSecret", hash))
	assert.False(t, CheckPassword("sup3rsecret", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("same-password", h1))
	assert.True(t, CheckPassword("same-password", h2))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"no separators", "pbkdf2:sha256:260000"},
		{"wrong method", "bcrypt:sha256:260000$aa$bb"},
		{"bad iterations", "pbkdf2:sha256:abc$aa$bb"},
		{"bad salt hex", "pbkdf2:sha256:260000$zz$bb"},
		{"empty hash", "pbkdf2:sha256:260000$aa$"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, CheckPassword("anything", tc.encoded))
		})
	}
}
