package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
		// URL-safe: no padding, no characters that need escaping.
		assert.NotContains(t, token, "=")
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
	}
}

func TestHaversineKm(t *testing.T) {
	// Copenhagen to Aarhus, roughly 157km.
	d := haversineKm(55.6761, 12.5683, 56.1629, 10.2039)
	assert.InDelta(t, 157, d, 5)

	assert.Zero(t, haversineKm(55.6761, 12.5683, 55.6761, 12.5683))
}
