package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

const testSecret = "test-secret"

func testAccount(t *testing.T) user.User {
	t.Helper()
	hash, err := crypto.HashPassword("password123")
	require.NoError(t, err)
	return user.User{
		ID:       7,
		Name:     "Member User",
		Email:    "member@example.com",
		Password: hash,
		Role:     "Member",
	}
}

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := NewMockUserDirectory(ctrl)
	mockBlacklist := NewMockBlacklistRepository(ctrl)
	service := NewService(testSecret, time.Hour, mockUsers, mockBlacklist)

	t.Run("success", func(t *testing.T) {
		account := testAccount(t)
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "member@example.com").Return(account, nil)

		token, u, err := service.Login(context.Background(), "member@example.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, account.ID, u.ID)

		claims, err := crypto.ParseToken(testSecret, token)
		require.NoError(t, err)
		userID, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, account.ID, userID)
		assert.Equal(t, "Member", claims.Role)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(user.User{}, user.ErrNotFound)

		_, _, err := service.Login(context.Background(), "nobody@example.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "member@example.com").Return(testAccount(t), nil)

		_, _, err := service.Login(context.Background(), "member@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		account := testAccount(t)
		account.Disabled = true
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "member@example.com").Return(account, nil)

		_, _, err := service.Login(context.Background(), "member@example.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository error", func(t *testing.T) {
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "member@example.com").Return(user.User{}, errors.New("db error"))

		_, _, err := service.Login(context.Background(), "member@example.com", "password123")

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := NewMockUserDirectory(ctrl)
	mockBlacklist := NewMockBlacklistRepository(ctrl)
	service := NewService(testSecret, time.Hour, mockUsers, mockBlacklist)

	t.Run("blacklists the token jti", func(t *testing.T) {
		token, err := crypto.GenerateToken(testSecret, 7, "Member", time.Hour)
		require.NoError(t, err)
		claims, err := crypto.ParseToken(testSecret, token)
		require.NoError(t, err)

		mockBlacklist.EXPECT().Add(gomock.Any(), claims.ID, int64(7), gomock.Any()).Return(nil)

		assert.NoError(t, service.Logout(context.Background(), token))
	})

	t.Run("invalid token", func(t *testing.T) {
		err := service.Logout(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
