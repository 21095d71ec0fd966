package settings

import (
	"context"
	"errors"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the stored settings, creating the defaults on first use.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	current, err := s.repo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Settings{}, err
	}

	def := Default()
	def.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, def); err != nil {
		return Settings{}, err
	}
	return def, nil
}

// Update shallow-merges patch into the current settings and saves the result.
func (s *Service) Update(ctx context.Context, patch Patch) (Settings, error) {
	if err := patch.validate(); err != nil {
		return Settings{}, err
	}
	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	next := current.apply(patch)
	next.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}
