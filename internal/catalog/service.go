package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/wichananm65/gift-store-backend/internal/slug"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetActive(ctx context.Context, id int) (Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if !it.IsActive {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Item, error) {
	if err := in.validate(); err != nil {
		return Item{}, err
	}

	now := s.now()
	it := Item{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		BackgroundColor: in.BackgroundColor,
		TextColor:       in.TextColor,
		ButtonColor:     in.ButtonColor,
		ProductIDs:      append([]int{}, in.ProductIDs...),
		Image:           in.Image,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.IsActive != nil {
		it.IsActive = *in.IsActive
	}

	var err error
	if it.Slug, err = s.uniqueSlug(ctx, slug.Make(it.Title, "catalog", now), 0); err != nil {
		return Item{}, err
	}
	return s.repo.Create(ctx, it)
}

func (s *Service) Update(ctx context.Context, id int, patch Patch) (Item, error) {
	if err := patch.validate(); err != nil {
		return Item{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}

	now := s.now()
	next := current.apply(patch)
	next.UpdatedAt = now

	var base string
	if patch.Slug != nil {
		base = slug.Make(*patch.Slug, "catalog", now)
	} else if patch.Title != nil && next.Title != current.Title {
		base = slug.Make(next.Title, "catalog", now)
	}
	if base != "" && base != current.Slug {
		if next.Slug, err = s.uniqueSlug(ctx, base, id); err != nil {
			return Item{}, err
		}
	}
	return s.repo.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id, s.now())
}

func (s *Service) uniqueSlug(ctx context.Context, base string, excludeID int) (string, error) {
	var lookupErr error
	out := slug.Unique(base, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		taken, err := s.repo.SlugExists(ctx, candidate, excludeID)
		lookupErr = err
		return taken
	})
	return out, lookupErr
}
