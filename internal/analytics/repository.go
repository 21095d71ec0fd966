package analytics

import (
	"context"
	"sort"
	"sync"
	"time"
)

type Repository interface {
	Record(ctx context.Context, e Event) error
	// ListSince returns events created at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]Event, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository keeps at most limit events, dropping the oldest.
// A limit <= 0 keeps everything.
func NewInMemoryRepository(limit int) *InMemoryRepository {
	return &InMemoryRepository{limit: limit}
}

func (r *InMemoryRepository) Record(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append([]Event(nil), r.events[len(r.events)-r.limit:]...)
	}
	return nil
}

func (r *InMemoryRepository) ListSince(ctx context.Context, since time.Time) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, 0)
	for _, e := range r.events {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
