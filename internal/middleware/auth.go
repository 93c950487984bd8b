package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"wedding-backend/internal/auth"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	EmailKey  contextKey = "email"
)

// AuthMiddleware validates admin-portal tokens and enforces the admin role
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	adminCache *auth.AdminCache
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, adminCache *auth.AdminCache) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, adminCache: adminCache}
}

// RequireAuth validates the Bearer token and stores the claims in the context
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			// Websocket clients cannot set headers; allow token via query param
			if t := r.URL.Query().Get("token"); t != "" {
				header = "Bearer " + t
			}
		}
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Missing or malformed Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin checks the admin role through the session cache. A cached
// determination within its TTL answers without a database lookup. A user
// found not to be admin gets 403, which forces the client to sign out.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "User ID not found in context", http.StatusUnauthorized)
			return
		}

		isAdmin, err := m.adminCache.IsAdmin(r.Context(), userID)
		if err != nil {
			if errors.Is(err, auth.ErrCheckBackoff) || errors.Is(err, context.DeadlineExceeded) {
				http.Error(w, "Admin check temporarily unavailable", http.StatusServiceUnavailable)
				return
			}
			log.Printf("Admin check for user %d failed: %v", userID, err)
			http.Error(w, "Admin check failed", http.StatusServiceUnavailable)
			return
		}
		if !isAdmin {
			http.Error(w, "Forbidden - admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext extracts the authenticated user ID
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// GetRoleFromContext extracts the authenticated user's role
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
