package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"wedding-backend/internal/metrics"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/models"
	"wedding-backend/internal/services"
)

const maxRosterSize = 5 << 20 // 5 MB

// RosterHandler accepts guest roster uploads for reconciliation
type RosterHandler struct {
	service *services.RosterService
}

func NewRosterHandler(service *services.RosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

// Upload runs a roster reconciliation. Accepts either a JSON body or a
// multipart form with a "file" part and event_id/replace/preserve_rsvp fields.
func (h *RosterHandler) Upload(w http.ResponseWriter, r *http.Request) {
	req, err := parseRosterRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	result, err := h.service.Reconcile(r.Context(), req, userID)
	if err != nil {
		metrics.RosterUploadsTotal.WithLabelValues("error").Inc()
		var headerErr *services.HeaderError
		if errors.As(err, &headerErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":      "invalid CSV headers",
				"violations": headerErr.Violations,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	outcome := "ok"
	if result.GuestsFailed > 0 {
		outcome = "partial"
	}
	metrics.RosterUploadsTotal.WithLabelValues(outcome).Inc()
	metrics.RosterGuestsCreated.Add(float64(result.GuestsCreated))
	metrics.RosterGuestsFailed.Add(float64(result.GuestsFailed))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func parseRosterRequest(r *http.Request) (*models.RosterUploadRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxRosterSize); err != nil {
			return nil, errors.New("invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("missing roster file")
		}
		defer file.Close()
		content, err := io.ReadAll(io.LimitReader(file, maxRosterSize))
		if err != nil {
			return nil, errors.New("failed to read roster file")
		}

		eventID, err := strconv.Atoi(r.FormValue("event_id"))
		if err != nil {
			return nil, errors.New("event_id is required")
		}
		return &models.RosterUploadRequest{
			EventID:      eventID,
			CSV:          string(content),
			Replace:      r.FormValue("replace") == "true",
			PreserveRSVP: r.FormValue("preserve_rsvp") == "true",
		}, nil
	}

	var req models.RosterUploadRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRosterSize)).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	return &req, nil
}
