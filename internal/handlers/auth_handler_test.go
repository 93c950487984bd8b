package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wedding-backend/internal/auth"
	"wedding-backend/internal/config"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
	"wedding-backend/internal/services"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	user *models.User
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserStore) Get(_ context.Context, id int) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, repositories.ErrUserNotFound
}

type nopAudit struct{}

func (nopAudit) Create(context.Context, *models.AuditLog) error { return nil }

func newAuthFixture(t *testing.T) (*AuthHandler, *auth.AdminCache, *int) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	store := &fakeUserStore{user: &models.User{
		ID: 1, Email: "admin@example.com", PasswordHash: string(hash), Role: "admin",
	}}

	lookups := 0
	cache := auth.NewAdminCache(func(context.Context, int) (string, error) {
		lookups++
		return "admin", nil
	}, 5*time.Minute, time.Second)

	jwtManager := auth.NewJWTManager(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
	})
	h := NewAuthHandler(services.NewUserService(store, jwtManager), nopAudit{}, cache)
	return h, cache, &lookups
}

func TestLoginInvalidatesCachedRole(t *testing.T) {
	h, cache, lookups := newAuthFixture(t)
	ctx := context.Background()

	// Prime the cache; a second check within the TTL answers without a lookup
	if _, err := cache.IsAdmin(ctx, 1); err != nil {
		t.Fatal(err)
	}
	cache.IsAdmin(ctx, 1)
	if *lookups != 1 {
		t.Fatalf("expected 1 lookup after priming, got %d", *lookups)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body: %s", rec.Code, rec.Body.String())
	}

	// The fresh login dropped the determination, so the next check re-fetches
	if _, err := cache.IsAdmin(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if *lookups != 2 {
		t.Fatalf("expected lookup after login, got %d total", *lookups)
	}
}

func TestLogoutInvalidatesCachedRole(t *testing.T) {
	h, cache, lookups := newAuthFixture(t)
	ctx := context.Background()

	if _, err := cache.IsAdmin(ctx, 1); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, 1))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}

	if _, err := cache.IsAdmin(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if *lookups != 2 {
		t.Fatalf("expected lookup after logout, got %d total", *lookups)
	}
}

func TestLogoutWithoutAuthContext(t *testing.T) {
	h, _, _ := newAuthFixture(t)
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
