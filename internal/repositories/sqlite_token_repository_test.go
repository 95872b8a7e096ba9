package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTokenRepository(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state", "console.db")

	repo, err := NewSQLiteTokenRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	t.Run("AbsentKeyMeansAnonymous", func(t *testing.T) {
		token, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("SaveThenLoadRoundTrips", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "tok-abc"))

		token, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", token)
	})

	t.Run("SaveOverwritesTheSingleKey", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "tok-old"))
		require.NoError(t, repo.Save(ctx, "tok-new"))

		token, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-new", token)
	})

	t.Run("ClearRemovesTheToken", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "tok-gone"))
		require.NoError(t, repo.Clear(ctx))

		token, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)

		// Clearing again stays a no-op.
		require.NoError(t, repo.Clear(ctx))
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "tok-durable"))

		reopened, err := NewSQLiteTokenRepository(dbPath)
		require.NoError(t, err)
		defer reopened.Close()

		token, err := reopened.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-durable", token)
	})
}
