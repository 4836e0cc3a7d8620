package user

import (
	"context"

	"libraryapi/internal/platform/crypto"
)

// Service provides user-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Register hashes the plaintext password and stores the new account.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	u := User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Update applies a partial update, re-hashing the password when it changes.
func (s *Service) Update(ctx context.Context, id int64, upd Update) (User, error) {
	if upd.Password != nil {
		hash, err := crypto.HashPassword(*upd.Password)
		if err != nil {
			return User{}, err
		}
		upd.Password = &hash
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
