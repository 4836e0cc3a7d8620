package book

import (
	"errors"
	"time"

	"libraryapi/internal/author"
)

// Book status values. A book starts Available; borrow flips it to Borrowed
// and return flips it back. No other transition exists.
const (
	StatusAvailable = "Available"
	StatusBorrowed  = "Borrowed"
)

var (
	// ErrNotFound is returned when no book matches the lookup.
	ErrNotFound = errors.New("book not found")
	// ErrISBNTaken is returned when the isbn unique constraint is hit.
	ErrISBNTaken = errors.New("isbn already in use")
	// ErrAuthorNotFound is returned when author_id references no author.
	ErrAuthorNotFound = errors.New("author does not exist")
)

// Book is a catalog entry. Author is eager-loaded on reads.
type Book struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	ISBN          string         `json:"isbn"`
	PublishedDate *time.Time     `json:"published_date,omitempty"`
	AuthorID      int64          `json:"author_id"`
	Status        string         `json:"status"`
	Author        *author.Author `json:"author,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Query defines search and pagination for listing books.
type Query struct {
	Search string // free text over title, isbn and author name
	Sort   string // asc or desc by creation time, desc by default
	Limit  int
	Offset int
}

// Update is a partial update; nil fields are left untouched.
type Update struct {
	Title         *string
	ISBN          *string
	PublishedDate *time.Time
	AuthorID      *int64
	Status        *string
}
