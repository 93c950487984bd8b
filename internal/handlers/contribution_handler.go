package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wedding-backend/internal/models"
	"wedding-backend/internal/services"
)

type ContributionHandler struct {
	service *services.ContributionService
}

func NewContributionHandler(service *services.ContributionService) *ContributionHandler {
	return &ContributionHandler{service: service}
}

// Create records a gift contribution or guestbook message. Public.
func (h *ContributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNegativeAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// List returns all contributions for the admin dashboard
func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contributions)
}
