package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/fallback"
)

type FallbackRepository struct {
	chain *fallback.Chain[Repository]
}

var _ Repository = (*FallbackRepository)(nil)

func NewFallbackRepository(log logrus.FieldLogger, backends ...fallback.Backend[Repository]) *FallbackRepository {
	terminal := func(err error) bool { return errors.Is(err, ErrNotFound) || errors.Is(err, ErrIDConflict) }
	return &FallbackRepository{chain: fallback.NewChain("catalog", log, terminal, backends...)}
}

func (r *FallbackRepository) List(ctx context.Context) (out []Item, err error) {
	err = r.chain.Do(ctx, "list", func(repo Repository) error {
		out, err = repo.List(ctx)
		return err
	})
	return out, err
}

func (r *FallbackRepository) GetByID(ctx context.Context, id int) (out Item, err error) {
	err = r.chain.Do(ctx, "get", func(repo Repository) error {
		out, err = repo.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (r *FallbackRepository) Create(ctx context.Context, it Item) (out Item, err error) {
	err = r.chain.Do(ctx, "create", func(repo Repository) error {
		out, err = repo.Create(ctx, it)
		return err
	})
	return out, err
}

func (r *FallbackRepository) Update(ctx context.Context, it Item) (out Item, err error) {
	err = r.chain.Do(ctx, "update", func(repo Repository) error {
		out, err = repo.Update(ctx, it)
		return err
	})
	return out, err
}

func (r *FallbackRepository) Delete(ctx context.Context, id int, deletedAt time.Time) error {
	return r.chain.Do(ctx, "delete", func(repo Repository) error {
		return repo.Delete(ctx, id, deletedAt)
	})
}

func (r *FallbackRepository) SlugExists(ctx context.Context, slug string, excludeID int) (exists bool, err error) {
	err = r.chain.Do(ctx, "slug_exists", func(repo Repository) error {
		exists, err = repo.SlugExists(ctx, slug, excludeID)
		return err
	})
	return exists, err
}
