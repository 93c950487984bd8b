package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wedding-backend/internal/auth"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/models"
	"wedding-backend/internal/services"
)

type AuthHandler struct {
	userService *services.UserService
	auditRepo   services.AuditStore
	adminCache  *auth.AdminCache
}

func NewAuthHandler(userService *services.UserService, auditRepo services.AuditStore, adminCache *auth.AdminCache) *AuthHandler {
	return &AuthHandler{userService: userService, auditRepo: auditRepo, adminCache: adminCache}
}

// Login authenticates an admin-portal user and returns a JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// A fresh login is an auth-state change: drop any stale role
	// determination so the new session sees the current role immediately
	h.adminCache.Invalidate(resp.User.ID)

	_ = h.auditRepo.Create(r.Context(), &models.AuditLog{
		EventType:   models.AuditAdminLogin,
		UserID:      &resp.User.ID,
		Description: "Admin portal login: " + resp.User.Email,
		ClientIP:    middleware.GetClientIP(r),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Logout invalidates the caller's cached role determination. The token itself
// stays valid until expiry; clients discard it on their side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	h.adminCache.Invalidate(userID)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
