package user

import (
	"context"
)

// Repository defines the contract for user data storage.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id int64, upd Update) (User, error)
	Delete(ctx context.Context, id int64) error
}
