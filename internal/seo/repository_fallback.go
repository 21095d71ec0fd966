package seo

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/fallback"
)

type FallbackRepository struct {
	chain *fallback.Chain[Repository]
}

var _ Repository = (*FallbackRepository)(nil)

func NewFallbackRepository(log logrus.FieldLogger, backends ...fallback.Backend[Repository]) *FallbackRepository {
	return &FallbackRepository{chain: fallback.NewChain("seo", log, nil, backends...)}
}

func (r *FallbackRepository) Save(ctx context.Context, s Snapshot) error {
	return r.chain.Do(ctx, "save", func(repo Repository) error {
		return repo.Save(ctx, s)
	})
}

func (r *FallbackRepository) Latest(ctx context.Context) (out []Snapshot, err error) {
	err = r.chain.Do(ctx, "latest", func(repo Repository) error {
		out, err = repo.Latest(ctx)
		return err
	})
	return out, err
}

func (r *FallbackRepository) History(ctx context.Context, path string, limit int) (out []Snapshot, err error) {
	err = r.chain.Do(ctx, "history", func(repo Repository) error {
		out, err = repo.History(ctx, path, limit)
		return err
	})
	return out, err
}
