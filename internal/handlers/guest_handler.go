package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wedding-backend/internal/middleware"
	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
	"wedding-backend/internal/services"

	"github.com/gorilla/mux"
)

type GuestHandler struct {
	service *services.GuestService
}

func NewGuestHandler(service *services.GuestService) *GuestHandler {
	return &GuestHandler{service: service}
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	guests, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(guests)
}

func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid guest ID", http.StatusBadRequest)
		return
	}
	guest, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrGuestNotFound) {
			http.Error(w, "Guest not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(guest)
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	guest, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGuestNameRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repositories.ErrHouseholdNotFound):
			http.Error(w, "Household not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(guest)
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid guest ID", http.StatusBadRequest)
		return
	}
	var req models.UpdateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	guest, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGuestNameRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repositories.ErrGuestNotFound):
			http.Error(w, "Guest not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(guest)
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid guest ID", http.StatusBadRequest)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, repositories.ErrGuestNotFound) {
			http.Error(w, "Guest not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GuestHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req models.BulkDeleteGuestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.GuestIDs) == 0 {
		http.Error(w, "guest_ids is required", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.BulkDelete(r.Context(), req.GuestIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"deleted": deleted})
}
