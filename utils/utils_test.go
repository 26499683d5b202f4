package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("commissioner")
	require.NoError(t, err)
	assert.NotEqual(t, "commissioner", hash)

	assert.True(t, CheckPasswordHash("commissioner", hash))
	assert.False(t, CheckPasswordHash("guess", hash))
	assert.False(t, CheckPasswordHash("commissioner", "not-a-hash"))
}
