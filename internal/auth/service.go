package auth

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// disabled accounts alike, so callers cannot probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when no valid token accompanies the
	// request.
	ErrUnauthenticated = errors.New("unauthenticated")
)

type Service struct {
	secret    string
	tokenTTL  time.Duration
	users     UserDirectory
	blacklist BlacklistRepository
}

func NewService(secret string, tokenTTL time.Duration, users UserDirectory, blacklist BlacklistRepository) *Service {
	return &Service{
		secret:    secret,
		tokenTTL:  tokenTTL,
		users:     users,
		blacklist: blacklist,
	}
}

// Login verifies the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, err
	}
	if u.Disabled || !crypto.VerifyPassword(u.Password, password) {
		return "", user.User{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}

// Logout revokes the presented token by blacklisting its jti until the
// token would have expired on its own.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return ErrUnauthenticated
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.blacklist.Add(ctx, claims.ID, userID, expiresAt)
}
