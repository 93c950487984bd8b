package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wedding-backend/internal/services"
)

const maxPhotoSize = 20 << 20 // 20 MB

// PhotoHandler manages the gallery on the configured storage backend
type PhotoHandler struct {
	service *services.PhotoService
}

func NewPhotoHandler(service *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// List returns all gallery photos. Public.
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if photos == nil {
		photos = []services.PhotoObject{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(photos)
}

// Upload accepts a multipart photo upload. Admin only.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Missing photo file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	photo, err := h.service.Upload(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedPhotoType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(photo)
}

// Delete removes a photo by key. Admin only.
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		http.Error(w, "Photo key is required", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), req.Key); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
