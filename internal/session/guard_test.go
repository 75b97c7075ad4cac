package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	var g Guard
	assert.False(t, g.TryFinalize("g1", "g0"), "stale signal")
	assert.False(t, g.TryFinalize("g1", ""), "untagged signal")
	assert.True(t, g.TryFinalize("g1", "g1"))
	assert.True(t, g.Finalized())
	assert.False(t, g.TryFinalize("g1", "g1"), "duplicate")

	g.Reset()
	assert.False(t, g.Finalized())
	assert.False(t, g.TryFinalize("g1", "g1"), "same game after re-arm")
	assert.True(t, g.TryFinalize("g2", "g2"))
	assert.False(t, g.TryFinalize("g2", "g1"))
}
