package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

var (
	ErrInvalidRSVPStatus   = errors.New("invalid rsvp status")
	ErrGuestNotInHousehold = errors.New("guest does not belong to this household")
	// ErrNotInvited is returned when a self-serve response targets a
	// guest/event pair that has no RSVP row. The self-serve path never
	// creates rows; only roster uploads and admins do.
	ErrNotInvited = errors.New("guest is not invited to this event")
)

// HouseholdRSVPView is what a household sees after entering its code
type HouseholdRSVPView struct {
	Household *models.Household       `json:"household"`
	Guests    []models.GuestWithRSVPs `json:"guests"`
}

// RSVPService owns per-guest-per-event RSVP state
type RSVPService struct {
	households  HouseholdStore
	guests      GuestStore
	guestEvents GuestEventStore
	invitations *InvitationService
	publisher   Publisher
}

func NewRSVPService(
	households HouseholdStore,
	guests GuestStore,
	guestEvents GuestEventStore,
	invitations *InvitationService,
	publisher Publisher,
) *RSVPService {
	return &RSVPService{
		households:  households,
		guests:      guests,
		guestEvents: guestEvents,
		invitations: invitations,
		publisher:   publisher,
	}
}

// SetStatus sets any status for a guest/event pair (admin path). A response
// timestamp is recorded for answers (attending/declined) and cleared otherwise.
// Any previously recorded timestamp is overwritten either way: an admin edit
// restamps an answer at edit time rather than keeping the guest's original one.
func (s *RSVPService) SetStatus(ctx context.Context, req *models.SetRSVPRequest) (*models.GuestEvent, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidRSVPStatus
	}
	if _, err := s.guests.Get(ctx, req.GuestID); err != nil {
		return nil, err
	}

	ge := &models.GuestEvent{
		GuestID: req.GuestID,
		EventID: req.EventID,
		Status:  req.Status,
	}
	if req.Status == models.RSVPAttending || req.Status == models.RSVPDeclined {
		now := time.Now()
		ge.ResponseDate = &now
	}
	if err := s.guestEvents.Upsert(ctx, ge); err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}
	publish(s.publisher, "guest_events", "upsert", req.GuestID)
	return ge, nil
}

// Submit records a household's self-serve answer. The invitation code is
// re-resolved on every submission; the guest must belong to the resolved
// household and must already have an RSVP row for the event.
func (s *RSVPService) Submit(ctx context.Context, req *models.SubmitRSVPRequest, clientIP string) (*models.GuestEvent, error) {
	if req.Status != models.RSVPAttending && req.Status != models.RSVPDeclined {
		return nil, ErrInvalidRSVPStatus
	}

	householdID, err := s.invitations.Resolve(ctx, req.InvitationCode, clientIP)
	if err != nil {
		return nil, err
	}

	guest, err := s.guests.Get(ctx, req.GuestID)
	if err != nil {
		return nil, err
	}
	if guest.HouseholdID != householdID {
		return nil, ErrGuestNotInHousehold
	}

	if _, err := s.guestEvents.Get(ctx, req.GuestID, req.EventID); err != nil {
		if errors.Is(err, repositories.ErrRSVPNotFound) {
			return nil, ErrNotInvited
		}
		return nil, err
	}

	now := time.Now()
	ge := &models.GuestEvent{
		GuestID:      req.GuestID,
		EventID:      req.EventID,
		Status:       req.Status,
		ResponseDate: &now,
	}
	if err := s.guestEvents.Upsert(ctx, ge); err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}
	publish(s.publisher, "guest_events", "upsert", req.GuestID)
	return ge, nil
}

// HouseholdView resolves an invitation code and returns the household with
// its guests and their per-event RSVP state.
func (s *RSVPService) HouseholdView(ctx context.Context, code, clientIP string) (*HouseholdRSVPView, error) {
	householdID, err := s.invitations.Resolve(ctx, code, clientIP)
	if err != nil {
		return nil, err
	}

	household, err := s.households.Get(ctx, householdID)
	if err != nil {
		return nil, err
	}
	guests, err := s.guests.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list household guests: %w", err)
	}

	view := &HouseholdRSVPView{Household: household}
	for _, g := range guests {
		rsvps, err := s.guestEvents.ListByGuest(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("list guest rsvps: %w", err)
		}
		view.Guests = append(view.Guests, models.GuestWithRSVPs{Guest: g, RSVPs: rsvps})
	}
	return view, nil
}

// RemoveAssociation deletes the RSVP row for a guest/event pair entirely,
// disassociating the guest from the event (admin path)
func (s *RSVPService) RemoveAssociation(ctx context.Context, guestID, eventID int) error {
	if err := s.guestEvents.Delete(ctx, guestID, eventID); err != nil {
		return fmt.Errorf("delete rsvp row: %w", err)
	}
	publish(s.publisher, "guest_events", "delete", guestID)
	return nil
}

// ListByEvent returns the admin RSVP table for one event
func (s *RSVPService) ListByEvent(ctx context.Context, eventID int) ([]models.GuestEventWithNames, error) {
	return s.guestEvents.ListByEvent(ctx, eventID)
}
