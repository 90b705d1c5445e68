package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueCode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{5}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateUniqueCode(func(c string) bool { return seen[c] })
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestGenerateUniqueCodeSkipsCollisions(t *testing.T) {
	calls := 0
	code, err := GenerateUniqueCode(func(c string) bool {
		calls++
		// Force the first two draws to collide
		return calls <= 2
	})
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, calls)
}
