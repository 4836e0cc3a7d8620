package author

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no author matches the lookup.
var ErrNotFound = errors.New("author not found")

// Author is a book author. Bio and Birthdate are optional.
type Author struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Bio       *string    `json:"bio,omitempty"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
