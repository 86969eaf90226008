package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := NewMessageRateLimiter(0.001, 2)

	require.True(t, rl.Allow("sender"))
	require.True(t, rl.Allow("sender"))
	require.False(t, rl.Allow("sender"))
	require.Greater(t, rl.WaitTime("sender").Seconds(), 0.0)
}

func TestRateLimiter_SendersAreIndependent(t *testing.T) {
	rl := NewMessageRateLimiter(0.001, 1)

	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"))
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewMessageRateLimiter(0.001, 1)

	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	rl.Reset("a")
	require.True(t, rl.Allow("a"))
}

func TestSessionManager_SameSenderSameSession(t *testing.T) {
	sm := NewSessionManager()

	first := sm.GetOrCreateSession("x")
	second := sm.GetOrCreateSession("x")
	require.Same(t, first, second)
	require.NotSame(t, first, sm.GetOrCreateSession("y"))
}
