package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShortID(t *testing.T) {
	id, err := GenerateShortID()
	require.NoError(t, err)
	assert.Len(t, id, 6)
	for _, c := range id {
		assert.True(t, strings.ContainsRune(base62Chars, c), string(c))
	}
}

func TestGenerateShortIDVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := GenerateShortID()
		require.NoError(t, err)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateUniqueIDAvoidsExisting(t *testing.T) {
	existing := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := GenerateUniqueID(existing)
		require.NoError(t, err)
		assert.False(t, existing[id])
		existing[id] = true
	}
}
