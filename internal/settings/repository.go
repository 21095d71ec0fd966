package settings

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("settings not found")

// Repository stores the settings singleton. Save is an upsert.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	current *Settings
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Get(ctx context.Context) (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return Settings{}, ErrNotFound
	}
	return *r.current, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &s
	return nil
}
