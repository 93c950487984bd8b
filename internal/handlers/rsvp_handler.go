package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wedding-backend/internal/metrics"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
	"wedding-backend/internal/services"

	"github.com/gorilla/mux"
)

// RSVPHandler serves the public RSVP flow and the admin RSVP table
type RSVPHandler struct {
	service *services.RSVPService
}

func NewRSVPHandler(service *services.RSVPService) *RSVPHandler {
	return &RSVPHandler{service: service}
}

// Resolve checks an invitation code and returns the household view.
// Public, rate limited.
func (h *RSVPHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.HouseholdView(r.Context(), req.Code, middleware.GetClientIP(r))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			metrics.InvitationResolvesTotal.WithLabelValues("invalid").Inc()
			http.Error(w, "Invalid invitation code", http.StatusNotFound)
			return
		}
		metrics.InvitationResolvesTotal.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.InvitationResolvesTotal.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// HouseholdView returns the household for a code given in the URL.
// Public, rate limited.
func (h *RSVPHandler) HouseholdView(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	view, err := h.service.HouseholdView(r.Context(), code, middleware.GetClientIP(r))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			http.Error(w, "Invalid invitation code", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// Submit records a household's self-serve answer for one guest and event
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ge, err := h.service.Submit(r.Context(), &req, middleware.GetClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRSVPStatus):
			http.Error(w, "Status must be attending or declined", http.StatusBadRequest)
		case errors.Is(err, services.ErrInvalidCode):
			http.Error(w, "Invalid invitation code", http.StatusNotFound)
		case errors.Is(err, repositories.ErrGuestNotFound):
			http.Error(w, "Guest not found", http.StatusNotFound)
		case errors.Is(err, services.ErrGuestNotInHousehold):
			http.Error(w, "Guest does not belong to this household", http.StatusForbidden)
		case errors.Is(err, services.ErrNotInvited):
			http.Error(w, "Guest is not invited to this event", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	metrics.RSVPSubmissionsTotal.WithLabelValues(string(ge.Status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ge)
}

// SetStatus is the admin path: any valid status, including not_invited
func (h *RSVPHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.SetRSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ge, err := h.service.SetStatus(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRSVPStatus):
			http.Error(w, "Invalid RSVP status", http.StatusBadRequest)
		case errors.Is(err, repositories.ErrGuestNotFound):
			http.Error(w, "Guest not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ge)
}

// Remove deletes the RSVP row for a guest/event pair, disassociating the
// guest from the event
func (h *RSVPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GuestID int `json:"guest_id"`
		EventID int `json:"event_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.RemoveAssociation(r.Context(), req.GuestID, req.EventID); err != nil {
		if errors.Is(err, repositories.ErrRSVPNotFound) {
			http.Error(w, "RSVP row not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByEvent returns the admin RSVP table for one event
func (h *RSVPHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	rsvps, err := h.service.ListByEvent(r.Context(), eventID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rsvps)
}
