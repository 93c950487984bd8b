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

type HouseholdHandler struct {
	service *services.HouseholdService
}

func NewHouseholdHandler(service *services.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{service: service}
}

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	households, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(households)
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid household ID", http.StatusBadRequest)
		return
	}
	household, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrHouseholdNotFound) {
			http.Error(w, "Household not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(household)
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	household, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateHousehold):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrHouseholdNameEmpty):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(household)
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid household ID", http.StatusBadRequest)
		return
	}
	var req models.UpdateHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	household, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrHouseholdNotFound):
			http.Error(w, "Household not found", http.StatusNotFound)
		case errors.Is(err, services.ErrDuplicateHousehold):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrHouseholdNameEmpty):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(household)
}

func (h *HouseholdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid household ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Duplicates returns groups of households sharing a case-insensitive name
func (h *HouseholdHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ScanDuplicates(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}

// Consolidate merges duplicate households, best effort
func (h *HouseholdHandler) Consolidate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.service.Consolidate(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
