package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existsIn(taken ...string) func(string) (bool, error) {
	set := make(map[string]bool, len(taken))
	for _, name := range taken {
		set[name] = true
	}
	return func(candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestDeriveUsername(t *testing.T) {
	cases := []struct {
		name  string
		base  string
		taken []string
		want  string
	}{
		{"no collision", "john.doe", nil, "john.doe"},
		{"one collision", "john.doe", []string{"john.doe"}, "john.doe1"},
		{"several collisions", "john.doe", []string{"john.doe", "john.doe1", "john.doe2"}, "john.doe3"},
		{"gap is taken first", "anna", []string{"anna", "anna2"}, "anna1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := deriveUsername(tc.base, existsIn(tc.taken...))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveUsernameSameLocalPartTwiceDistinct(t *testing.T) {
	registered := map[string]bool{}
	exists := func(candidate string) (bool, error) {
		return registered[candidate], nil
	}

	first, err := deriveUsername(UsernameBase("alex@one.example"), exists)
	require.NoError(t, err)
	registered[first] = true

	second, err := deriveUsername(UsernameBase("alex@two.example"), exists)
	require.NoError(t, err)

	assert.Equal(t, "alex", first)
	assert.Equal(t, "alex1", second)
	assert.NotEqual(t, first, second)
}

func TestDeriveUsernamePropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("connection reset")
	_, err := deriveUsername("sam", func(string) (bool, error) {
		return false, lookupErr
	})
	assert.ErrorIs(t, err, lookupErr)
}
