package auth

import (
	"context"
	"time"

	"libraryapi/internal/user"
)

// UserDirectory is the slice of the user service login needs.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// BlacklistRepository stores revoked token IDs until they would have
// expired anyway.
type BlacklistRepository interface {
	Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) error
}
