package settings

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/fallback"
)

type FallbackRepository struct {
	chain *fallback.Chain[Repository]
}

var _ Repository = (*FallbackRepository)(nil)

func NewFallbackRepository(log logrus.FieldLogger, backends ...fallback.Backend[Repository]) *FallbackRepository {
	terminal := func(err error) bool { return errors.Is(err, ErrNotFound) }
	return &FallbackRepository{chain: fallback.NewChain("settings", log, terminal, backends...)}
}

func (r *FallbackRepository) Get(ctx context.Context) (out Settings, err error) {
	err = r.chain.Do(ctx, "get", func(repo Repository) error {
		out, err = repo.Get(ctx)
		return err
	})
	return out, err
}

func (r *FallbackRepository) Save(ctx context.Context, s Settings) error {
	return r.chain.Do(ctx, "save", func(repo Repository) error {
		return repo.Save(ctx, s)
	})
}
