package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/staffdesk/console/internal/models"
	"github.com/staffdesk/console/internal/repositories"
	"github.com/staffdesk/console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectingLogin struct {
	*stubBackend
}

func (r *rejectingLogin) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	return nil, fmt.Errorf("bad credentials")
}

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(context.Background(), repositories.NewMemoryTokenRepository())
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessEstablishesSession", func(t *testing.T) {
		sessions := newSessions(t)
		auth := NewAuthService(&stubBackend{}, sessions)

		require.NoError(t, auth.Login(ctx, "admin", "secret"))
		assert.True(t, sessions.IsAuthenticated())
		assert.Equal(t, "stub", sessions.Token())
	})

	t.Run("BlankCredentialsNeverLeaveTheClient", func(t *testing.T) {
		sessions := newSessions(t)
		auth := NewAuthService(&stubBackend{}, sessions)

		assert.Error(t, auth.Login(ctx, "", "secret"))
		assert.Error(t, auth.Login(ctx, "admin", ""))
		assert.False(t, sessions.IsAuthenticated())
	})

	t.Run("RejectionLeavesPriorStateUnchanged", func(t *testing.T) {
		sessions := newSessions(t)
		require.NoError(t, sessions.Establish(ctx, "existing-token"))

		auth := NewAuthService(&rejectingLogin{&stubBackend{}}, sessions)

		assert.Error(t, auth.Login(ctx, "admin", "wrong"))
		assert.Equal(t, "existing-token", sessions.Token())
	})
}

func TestAuthLogout(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t)
	auth := NewAuthService(&stubBackend{}, sessions)

	require.NoError(t, auth.Login(ctx, "admin", "secret"))
	require.NoError(t, auth.Logout(ctx))
	assert.False(t, sessions.IsAuthenticated())

	// Logging out while already anonymous is fine.
	require.NoError(t, auth.Logout(ctx))
}
