package borrow

import (
	"context"
	"time"

	"libraryapi/internal/book"
)

// Repository defines the contract for borrow record storage.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)

	// CloseOpen stamps returned_at on the caller's open record for the
	// book and returns it. ErrNotFound when the caller has no open
	// record for that book.
	CloseOpen(ctx context.Context, bookID, userID int64, returnedAt time.Time) (Record, error)
}

// BookStore is the slice of the book repository the workflow needs.
type BookStore interface {
	GetByID(ctx context.Context, id int64) (book.Book, error)
	SetStatusIf(ctx context.Context, id int64, from, to string) (bool, error)
}
