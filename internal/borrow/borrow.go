// Package borrow implements the lending workflow: borrowing flips the book
// to Borrowed and opens a ledger record, returning closes the record and
// flips the book back.
package borrow

import (
	"errors"
	"time"

	"libraryapi/internal/book"
)

// Due window accepted on borrow, in days from now.
const (
	MinDueDays     = 0
	MaxDueDays     = 30
	DefaultDueDays = 14
)

var (
	// ErrNotFound is returned when no borrow record matches the lookup.
	ErrNotFound = errors.New("borrow record not found")
	// ErrForbidden is returned when the caller's role may not borrow or
	// return books.
	ErrForbidden = errors.New("forbidden")
	// ErrNotAvailable is returned when the book is not available for
	// borrowing. Business rule, not an authorization failure.
	ErrNotAvailable = errors.New("book is not available for borrowing")
	// ErrNotBorrowed is returned when returning a book that is not
	// currently borrowed.
	ErrNotBorrowed = errors.New("book is not currently borrowed")
	// ErrInvalidDueDays is returned when the due window is outside
	// [MinDueDays, MaxDueDays].
	ErrInvalidDueDays = errors.New("due date out of range")
)

// Record is one lending transaction. It is created on borrow, closed on
// return and never deleted.
type Record struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	Book       *book.Book `json:"book,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
