package auth

import (
	"net/http"
	"strings"

	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/crypto"
)

// Middleware authenticates the bearer token, rejects blacklisted tokens
// and threads the caller's identity through the request context.
func Middleware(secret string, blacklist BlacklistRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				httpx.JSONError(w, http.StatusUnauthorized, "Unauthenticated", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, "Unauthenticated", nil)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, "Unauthenticated", nil)
				return
			}

			if blacklist != nil {
				revoked, err := blacklist.IsBlacklisted(r.Context(), claims.ID)
				if err != nil || revoked {
					httpx.JSONError(w, http.StatusUnauthorized, "Unauthenticated", nil)
					return
				}
			}

			ctx := httpx.ContextWithUser(r.Context(), userID, claims.Role, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
