package author

import (
	"context"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, a *Author) error {
	return s.repo.Create(ctx, a)
}

// Update replaces the author's fields wholesale; author updates require the
// full payload.
func (s *Service) Update(ctx context.Context, a *Author) error {
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
