package product

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

// WithClock swaps the time source. Tests use it to pin timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get returns the product whether or not it is active.
func (s *Service) Get(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActive hides soft-deleted products behind ErrNotFound.
func (s *Service) GetActive(ctx context.Context, id int) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !p.IsActive {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}

	now := s.now()
	p := Product{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Price:           roundPrice(*in.Price),
		Category:        strings.TrimSpace(in.Category),
		Images:          append([]string{}, in.Images...),
		MainImage:       in.MainImage,
		ShowOnHome:      in.ShowOnHome,
		Personalization: in.Personalization,
		ProductionTime:  in.ProductionTime,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if p.MainImage == "" && len(p.Images) > 0 {
		p.MainImage = p.Images[0]
	}

	var err error
	if p.Slug, err = s.uniqueSlug(ctx, slug.Make(p.Name, "product", now), 0); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, p)
}

// Update merges patch into the stored product. The slug follows the name
// unless the patch sets it explicitly.
func (s *Service) Update(ctx context.Context, id int, patch Patch) (Product, error) {
	if err := patch.validate(); err != nil {
		return Product{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	now := s.now()
	next := current.apply(patch)
	next.UpdatedAt = now

	base := ""
	switch {
	case patch.Slug != nil:
		base = slug.Make(*patch.Slug, "product", now)
	case patch.Name != nil && next.Name != current.Name:
		base = slug.Make(next.Name, "product", now)
	}
	if base != "" && base != current.Slug {
		if next.Slug, err = s.uniqueSlug(ctx, base, id); err != nil {
			return Product{}, err
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
		if err != nil {
			lookupErr = err
			return false
		}
		return taken
	})
	return out, lookupErr
}
