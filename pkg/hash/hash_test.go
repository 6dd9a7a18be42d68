package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", h)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, Cost, cost)

	assert.True(t, CheckPassword(h, "Secret123"))
	assert.False(t, CheckPassword(h, "secret123"))
	assert.False(t, CheckPassword("not-a-hash", "Secret123"))
}
