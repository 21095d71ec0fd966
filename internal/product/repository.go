package product

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrIDConflict means concurrent creates kept taking the next id.
	ErrIDConflict = errors.New("product id conflict")
)

// Repository is the storage contract every backend satisfies.
//
// List returns active products newest first. Create assigns the next id
// (max existing + 1). Update replaces the whole record. Delete is a soft
// delete and reports ErrNotFound for missing or already inactive products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id int, deletedAt time.Time) error
	SlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
}

// InMemoryRepository is the last-resort backend and the one tests use.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
	}
	for _, p := range seed {
		r.storage = append(r.storage, clone(p))
	}
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if p.IsActive {
			out = append(out, clone(p))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return clone(p), nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxID := 0
	for _, existing := range r.storage {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	r.storage = append(r.storage, clone(p))
	return clone(p), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == p.ID {
			r.storage[i] = clone(p)
			return clone(p), nil
		}
	}
	return Product{}, ErrNotFound
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
	for _, p := range r.storage {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func clone(p Product) Product {
	if p.Images != nil {
		p.Images = append([]string{}, p.Images...)
	}
	return p
}

func sortNewestFirst(ps []Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID > ps[j].ID
		}
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
