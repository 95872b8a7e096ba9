package session

import (
	"context"
	"testing"

	"github.com/staffdesk/console/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStateMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("StartsAnonymous", func(t *testing.T) {
		m := NewManager(ctx, repositories.NewMemoryTokenRepository())
		assert.False(t, m.IsAuthenticated())
		assert.Empty(t, m.Token())
	})

	t.Run("EstablishAuthenticatesAndPersists", func(t *testing.T) {
		repo := repositories.NewMemoryTokenRepository()
		m := NewManager(ctx, repo)

		require.NoError(t, m.Establish(ctx, "tok-1"))
		assert.True(t, m.IsAuthenticated())
		assert.Equal(t, "tok-1", m.Token())

		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", stored)
	})

	t.Run("RestoresPersistedTokenOnConstruction", func(t *testing.T) {
		repo := repositories.NewMemoryTokenRepository()
		require.NoError(t, repo.Save(ctx, "tok-2"))

		m := NewManager(ctx, repo)
		assert.True(t, m.IsAuthenticated())
		assert.Equal(t, "tok-2", m.Token())
	})

	t.Run("ClearIsIdempotent", func(t *testing.T) {
		repo := repositories.NewMemoryTokenRepository()
		m := NewManager(ctx, repo)
		require.NoError(t, m.Establish(ctx, "tok-3"))

		require.NoError(t, m.Clear(ctx))
		assert.False(t, m.IsAuthenticated())

		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, stored)

		// A second clear changes nothing and does not error.
		require.NoError(t, m.Clear(ctx))
		assert.False(t, m.IsAuthenticated())
	})
}

func TestManagerEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("ListenersSeeTransitions", func(t *testing.T) {
		m := NewManager(ctx, repositories.NewMemoryTokenRepository())

		var events []Event
		m.Subscribe(func(e Event) { events = append(events, e) })

		require.NoError(t, m.Establish(ctx, "tok"))
		require.NoError(t, m.Clear(ctx))

		assert.Equal(t, []Event{EventLogin, EventLogout}, events)
	})

	t.Run("ExpireIsDistinguishableFromLogout", func(t *testing.T) {
		m := NewManager(ctx, repositories.NewMemoryTokenRepository())
		require.NoError(t, m.Establish(ctx, "tok"))

		var got Event
		m.Subscribe(func(e Event) { got = e })

		require.NoError(t, m.Expire(ctx))
		assert.Equal(t, EventExpired, got)
		assert.False(t, m.IsAuthenticated())
	})

	t.Run("NoEventWhenAlreadyAnonymous", func(t *testing.T) {
		m := NewManager(ctx, repositories.NewMemoryTokenRepository())

		fired := 0
		m.Subscribe(func(Event) { fired++ })

		require.NoError(t, m.Clear(ctx))
		require.NoError(t, m.Expire(ctx))
		assert.Zero(t, fired)
	})
}
