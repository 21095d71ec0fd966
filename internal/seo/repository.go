package seo

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	Save(ctx context.Context, s Snapshot) error
	// Latest returns the most recent snapshot of every path, ordered by path.
	Latest(ctx context.Context) ([]Snapshot, error)
	// History returns up to limit snapshots of path, newest first.
	History(ctx context.Context, path string, limit int) ([]Snapshot, error)
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	snapshots []Snapshot
	limit     int
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository keeps at most limit snapshots, dropping the oldest.
// A limit <= 0 keeps everything.
func NewInMemoryRepository(limit int) *InMemoryRepository {
	return &InMemoryRepository{limit: limit}
}

func (r *InMemoryRepository) Save(ctx context.Context, s Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
	if r.limit > 0 && len(r.snapshots) > r.limit {
		r.snapshots = append([]Snapshot(nil), r.snapshots[len(r.snapshots)-r.limit:]...)
	}
	return nil
}

func (r *InMemoryRepository) Latest(ctx context.Context) ([]Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := map[string]Snapshot{}
	for _, s := range r.snapshots {
		if cur, ok := latest[s.Path]; !ok || !s.CheckedAt.Before(cur.CheckedAt) {
			latest[s.Path] = s
		}
	}
	out := make([]Snapshot, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (r *InMemoryRepository) History(ctx context.Context, path string, limit int) ([]Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0)
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].Path == path {
			out = append(out, r.snapshots[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
