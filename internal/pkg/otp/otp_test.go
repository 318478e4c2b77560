package otp

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_InRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, expires, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		assert.WithinDuration(t, time.Now().Add(Validity), expires, 2*time.Second)
	}
}

func TestGenerate_NonDeterministic(t *testing.T) {
	// 100 draws from a 900k space should essentially never all collide.
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, _, err := Generate()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 90)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("123456"))
	assert.True(t, Valid("100000"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("12345"))
	assert.False(t, Valid("1234567"))
	assert.False(t, Valid("12345a"))
	assert.False(t, Valid("12 456"))
}
