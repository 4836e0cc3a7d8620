package user

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email unique constraint is hit.
	ErrEmailTaken = errors.New("email already in use")
)

// User is a library account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // Member, Librarian, Admin
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update is a partial update; nil fields are left untouched. Password must
// already be hashed.
type Update struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Disabled *bool
}
