package borrow

import (
	"context"
	"time"

	"libraryapi/internal/authz"
	"libraryapi/internal/book"
)

// Service orchestrates the borrow/return workflow. The caller's identity is
// threaded in explicitly; there is no ambient authentication state.
type Service struct {
	books   BookStore
	records Repository
	now     func() time.Time
}

func NewService(books BookStore, records Repository) *Service {
	return &Service{books: books, records: records, now: time.Now}
}

// Borrow checks the book out to the caller. The status flip is a single
// conditional write, so two concurrent borrows cannot both succeed: the
// loser sees zero rows affected and gets ErrNotAvailable.
func (s *Service) Borrow(ctx context.Context, callerID int64, callerRole authz.Role, bookID int64, dueDays int) (Record, error) {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return Record{}, err
	}

	if !authz.Allows(callerRole, authz.ActionBorrow, authz.ResourceBook) {
		return Record{}, ErrForbidden
	}
	if dueDays < MinDueDays || dueDays > MaxDueDays {
		return Record{}, ErrInvalidDueDays
	}

	flipped, err := s.books.SetStatusIf(ctx, bookID, book.StatusAvailable, book.StatusBorrowed)
	if err != nil {
		return Record{}, err
	}
	if !flipped {
		return Record{}, ErrNotAvailable
	}

	now := s.now()
	rec := Record{
		UserID:     callerID,
		BookID:     bookID,
		BorrowedAt: now,
		DueAt:      now.AddDate(0, 0, dueDays),
	}
	if err := s.records.Create(ctx, &rec); err != nil {
		return Record{}, err
	}

	b.Status = book.StatusBorrowed
	rec.Book = &b
	return rec, nil
}

// Return closes the caller's open record for the book and makes the book
// available again. Only the borrowing user can return a book; the open
// record lookup is keyed on the caller.
func (s *Service) Return(ctx context.Context, callerID int64, callerRole authz.Role, bookID int64) (Record, error) {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return Record{}, err
	}

	if !authz.Allows(callerRole, authz.ActionReturn, authz.ResourceBook) {
		return Record{}, ErrForbidden
	}
	if b.Status != book.StatusBorrowed {
		return Record{}, ErrNotBorrowed
	}

	// Close the ledger entry before flipping the status so a miss (the
	// caller is not the borrower) mutates nothing.
	rec, err := s.records.CloseOpen(ctx, bookID, callerID, s.now())
	if err != nil {
		return Record{}, err
	}

	if _, err := s.books.SetStatusIf(ctx, bookID, book.StatusBorrowed, book.StatusAvailable); err != nil {
		return Record{}, err
	}

	b.Status = book.StatusAvailable
	rec.Book = &b
	return rec, nil
}

// List returns every borrow record with its book.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.records.List(ctx)
}

// GetByID returns one borrow record with its book.
func (s *Service) GetByID(ctx context.Context, id int64) (Record, error) {
	return s.records.GetByID(ctx, id)
}
