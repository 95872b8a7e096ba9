package repositories

import (
	"context"
	"sync"
)

type memoryTokenRepository struct {
	token string
	mutex sync.RWMutex
}

// NewMemoryTokenRepository keeps the token in process memory only. Used as
// a fallback when the durable store cannot be opened, and in tests.
func NewMemoryTokenRepository() TokenRepository {
	return &memoryTokenRepository{}
}

func (r *memoryTokenRepository) Load(ctx context.Context) (string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.token, nil
}

func (r *memoryTokenRepository) Save(ctx context.Context, token string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.token = token
	return nil
}

func (r *memoryTokenRepository) Clear(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.token = ""
	return nil
}
