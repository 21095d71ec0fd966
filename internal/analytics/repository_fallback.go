package analytics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/fallback"
)

type FallbackRepository struct {
	chain *fallback.Chain[Repository]
}

var _ Repository = (*FallbackRepository)(nil)

func NewFallbackRepository(log logrus.FieldLogger, backends ...fallback.Backend[Repository]) *FallbackRepository {
	return &FallbackRepository{chain: fallback.NewChain("analytics", log, nil, backends...)}
}

func (r *FallbackRepository) Record(ctx context.Context, e Event) error {
	return r.chain.Do(ctx, "record", func(repo Repository) error {
		return repo.Record(ctx, e)
	})
}

func (r *FallbackRepository) ListSince(ctx context.Context, since time.Time) (out []Event, err error) {
	err = r.chain.Do(ctx, "list_since", func(repo Repository) error {
		out, err = repo.ListSince(ctx, since)
		return err
	})
	return out, err
}
