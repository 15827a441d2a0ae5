package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdna/devtrack/internal/session"
)

func TestAcquireReturnsExistingSession(t *testing.T) {
	t.Parallel()

	r := session.NewRegistry()

	first, existed := r.Acquire("userStoriesDev")
	require.False(t, existed)

	second, existed := r.Acquire("userStoriesDev")
	require.True(t, existed)
	assert.Same(t, first, second)

	other, existed := r.Acquire("pageMapping")
	require.False(t, existed)
	assert.NotSame(t, first, other)
}

func TestCloseRunsHookOnce(t *testing.T) {
	t.Parallel()

	r := session.NewRegistry()

	s, _ := r.Acquire("userStoriesDev")

	closed := 0
	s.OnClose(func() { closed++ })

	r.Close("userStoriesDev")
	r.Close("userStoriesDev") // absent now, no-op

	assert.Equal(t, 1, closed)

	// A fresh acquire after close yields a new session.
	_, existed := r.Acquire("userStoriesDev")
	assert.False(t, existed)
}

func TestCloseAll(t *testing.T) {
	t.Parallel()

	r := session.NewRegistry()

	closed := map[string]bool{}

	for _, feature := range []string{"a", "b", "c"} {
		s, _ := r.Acquire(feature)
		s.OnClose(func() { closed[feature] = true })
	}

	r.CloseAll()

	assert.Len(t, closed, 3)

	// The registry is empty again; every acquire creates anew.
	for _, feature := range []string{"a", "b", "c"} {
		_, existed := r.Acquire(feature)
		assert.False(t, existed)
	}
}
