package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := newSession("order")
	assert.Equal(t, StateCreated, s.State)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Terminal())

	require.NoError(t, s.advance(StateAwaitingClaim))
	require.NoError(t, s.advance(StateVerified))
	assert.True(t, s.Terminal())
}

func TestSessionRejectsInvalidTransitions(t *testing.T) {
	s := newSession("order")

	// Cannot verify before the widget was ever opened.
	assert.Error(t, s.advance(StateVerified))
	assert.Equal(t, StateCreated, s.State)

	require.NoError(t, s.advance(StateAwaitingClaim))
	require.NoError(t, s.advance(StateAbandoned))

	// Terminal states accept nothing further.
	assert.Error(t, s.advance(StateVerified))
	assert.True(t, s.Terminal())
}
