package book

import (
	"context"
)

// Service provides book-related business logic. The borrow/return workflow
// lives in the borrow package; this service covers the catalog surface.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, b *Book) error {
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, id int64, upd Update) (Book, error) {
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
