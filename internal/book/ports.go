package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, id int64, upd Update) (Book, error)
	Delete(ctx context.Context, id int64) error

	// SetStatusIf flips the status in a single conditional write and
	// reports whether a row actually changed. This is the guard against
	// two concurrent borrows both observing an available book.
	SetStatusIf(ctx context.Context, id int64, from, to string) (bool, error)
}
