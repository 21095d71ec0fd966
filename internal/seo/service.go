package seo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultHistory = 20

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Audit scores the page metadata and appends the result to the history.
func (s *Service) Audit(ctx context.Context, in AuditInput) (Snapshot, error) {
	in.Path = strings.TrimSpace(in.Path)
	if err := in.validate(); err != nil {
		return Snapshot{}, err
	}

	score, issues := Audit(in)
	snap := Snapshot{
		ID:          uuid.NewString(),
		Path:        in.Path,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Keywords:    cleanKeywords(in.Keywords),
		Score:       score,
		Issues:      issues,
		CheckedAt:   s.now(),
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) Latest(ctx context.Context) ([]Snapshot, error) {
	return s.repo.Latest(ctx)
}

func (s *Service) History(ctx context.Context, path string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return s.repo.History(ctx, path, limit)
}
