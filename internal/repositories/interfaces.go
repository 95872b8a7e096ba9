package repositories

import (
	"context"
)

// TokenRepository persists the bearer token under a single fixed key.
// Load returns the empty string, not an error, when no token is stored;
// an absent token simply means the session is anonymous.
type TokenRepository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
