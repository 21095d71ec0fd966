package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound   = errors.New("catalog item not found")
	ErrIDConflict = errors.New("catalog item id conflict")
)

// Repository mirrors the product storage contract: active-only newest-first
// listing, max+1 ids, whole-record Update and soft Delete.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id int) (Item, error)
	Create(ctx context.Context, it Item) (Item, error)
	Update(ctx context.Context, it Item) (Item, error)
	Delete(ctx context.Context, id int, deletedAt time.Time) error
	SlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Item
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Item, 0, len(seed))}
	for _, it := range seed {
		r.storage = append(r.storage, clone(it))
	}
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0, len(r.storage))
	for _, it := range r.storage {
		if it.IsActive {
			out = append(out, clone(it))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.storage {
		if it.ID == id {
			return clone(it), nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxID := 0
	for _, existing := range r.storage {
		maxID = max(maxID, existing.ID)
	}
	it.ID = maxID + 1
	r.storage = append(r.storage, clone(it))
	return clone(it), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == it.ID {
			r.storage[i] = clone(it)
			return clone(it), nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id && r.storage[i].IsActive {
			r.storage[i].IsActive = false
			r.storage[i].UpdatedAt = deletedAt
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.storage {
		if it.Slug == slug && it.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func clone(it Item) Item {
	if it.ProductIDs != nil {
		it.ProductIDs = append([]int{}, it.ProductIDs...)
	}
	return it
}
