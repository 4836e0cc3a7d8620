package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/testutil"
)

func TestHTTPHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := NewMockUserDirectory(ctrl)
	mockBlacklist := NewMockBlacklistRepository(ctrl)
	service := NewService(testutil.Secret, time.Hour, mockUsers, mockBlacklist)
	handler := NewHTTPHandler(service)

	t.Run("success", func(t *testing.T) {
		account := testAccount(t)
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "member@example.com").Return(account, nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/login", map[string]string{
			"email":    "member@example.com",
			"password": "password123",
		})

		handler.Login(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.RecordHTTPResponse(w)
		assert.Equal(t, "Login Successful", body.Body["message"])
		assert.Equal(t, "Bearer", body.Body["token_type"])
		assert.NotEmpty(t, body.Body["access_token"])

		data, ok := body.Body["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "member@example.com", data["email"])
		assert.NotContains(t, data, "password")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		account := testAccount(t)
		mockUsers.EXPECT().GetByEmail(gomock.Any(), "member@example.com").Return(account, nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/login", map[string]string{
			"email":    "member@example.com",
			"password": "wrong",
		})

		handler.Login(w, r)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := testutil.RecordHTTPResponse(w)
		assert.Equal(t, "The provided credentials are incorrect.", body.Body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/login", map[string]string{})

		handler.Login(w, r)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := testutil.RecordHTTPResponse(w)
		assert.Equal(t, "Validation failed", body.Body["message"])
	})

	t.Run("malformed email", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/login", map[string]string{
			"email":    "not-an-email",
			"password": "password123",
		})

		handler.Login(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/login", nil)

		handler.Login(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHTTPHandler_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := NewMockUserDirectory(ctrl)
	mockBlacklist := NewMockBlacklistRepository(ctrl)
	service := NewService(testutil.Secret, time.Hour, mockUsers, mockBlacklist)
	handler := NewHTTPHandler(service)

	t.Run("success", func(t *testing.T) {
		token, err := crypto.GenerateToken(testutil.Secret, 7, "Member", time.Hour)
		require.NoError(t, err)
		mockBlacklist.EXPECT().Add(gomock.Any(), gomock.Any(), int64(7), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/logout", nil)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), 7, "Member", token))

		handler.Logout(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.RecordHTTPResponse(w)
		assert.Equal(t, "Logged out successfully", body.Body["message"])
	})

	t.Run("no token on context", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/logout", nil)

		handler.Logout(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
