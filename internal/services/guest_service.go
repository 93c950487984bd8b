package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wedding-backend/internal/models"
)

var ErrGuestNameRequired = errors.New("first_name and last_name are required")

// GuestService handles admin guest management
type GuestService struct {
	guests     GuestStore
	households HouseholdStore
	audit      AuditStore
	publisher  Publisher
}

func NewGuestService(guests GuestStore, households HouseholdStore, audit AuditStore, publisher Publisher) *GuestService {
	return &GuestService{guests: guests, households: households, audit: audit, publisher: publisher}
}

// Create adds a guest to an existing household
func (s *GuestService) Create(ctx context.Context, req *models.CreateGuestRequest) (*models.Guest, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return nil, ErrGuestNameRequired
	}
	if _, err := s.households.Get(ctx, req.HouseholdID); err != nil {
		return nil, err
	}

	guest := &models.Guest{
		HouseholdID:         req.HouseholdID,
		FirstName:           first,
		LastName:            last,
		Email:               req.Email,
		Phone:               req.Phone,
		DietaryRestrictions: req.DietaryRestrictions,
	}
	if err := s.guests.Create(ctx, guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	publish(s.publisher, "guests", "insert", guest.ID)
	return guest, nil
}

// Get returns a guest by ID
func (s *GuestService) Get(ctx context.Context, id int) (*models.Guest, error) {
	return s.guests.Get(ctx, id)
}

// List returns all guests
func (s *GuestService) List(ctx context.Context) ([]models.Guest, error) {
	return s.guests.List(ctx)
}

// Update edits a guest's fields
func (s *GuestService) Update(ctx context.Context, id int, req *models.UpdateGuestRequest) (*models.Guest, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return nil, ErrGuestNameRequired
	}

	guest, err := s.guests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	guest.FirstName = first
	guest.LastName = last
	guest.Email = req.Email
	guest.Phone = req.Phone
	guest.DietaryRestrictions = req.DietaryRestrictions
	if err := s.guests.Update(ctx, guest); err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	publish(s.publisher, "guests", "update", guest.ID)
	return guest, nil
}

// Delete removes a guest, its RSVP rows, and the household if emptied
func (s *GuestService) Delete(ctx context.Context, id int, userID int) error {
	guest, err := s.guests.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guests.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if s.audit != nil {
		_ = s.audit.Create(ctx, &models.AuditLog{
			EventType:   models.AuditGuestDeleted,
			UserID:      &userID,
			Description: fmt.Sprintf("Guest %s %s (id %d) deleted", guest.FirstName, guest.LastName, id),
		})
	}
	publish(s.publisher, "guests", "delete", id)
	return nil
}

// BulkDelete removes several guests at once
func (s *GuestService) BulkDelete(ctx context.Context, ids []int) (int, error) {
	deleted, err := s.guests.BulkDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete guests: %w", err)
	}
	for _, id := range ids {
		publish(s.publisher, "guests", "delete", id)
	}
	return deleted, nil
}
