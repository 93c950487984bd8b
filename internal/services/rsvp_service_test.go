package services

import (
	"context"
	"errors"
	"testing"

	"wedding-backend/internal/models"
)

func newRSVPFixture(t *testing.T) (*RSVPService, *fakeStore, *models.Household, *models.Guest, *models.Event) {
	t.Helper()
	store := newFakeStore()
	ctx := context.Background()

	event := store.addEvent("Wedding Ceremony", true)
	household := &models.Household{Name: "Lee Household", InvitationCode: "ABC123"}
	store.Create(ctx, household)
	guest := &models.Guest{HouseholdID: household.ID, FirstName: "Anna", LastName: "Lee"}
	store.CreateGuest(ctx, guest)

	invitations := NewInvitationService(fakeHouseholds{store}, nil)
	svc := NewRSVPService(fakeHouseholds{store}, fakeGuests{store},
		fakeGuestEvents{store}, invitations, nil)
	return svc, store, household, guest, event
}

func TestSubmitRecordsAnswer(t *testing.T) {
	svc, store, _, guest, event := newRSVPFixture(t)
	ctx := context.Background()

	store.Upsert(ctx, &models.GuestEvent{GuestID: guest.ID, EventID: event.ID, Status: models.RSVPInvited})

	ge, err := svc.Submit(ctx, &models.SubmitRSVPRequest{
		InvitationCode: "abc123",
		GuestID:        guest.ID,
		EventID:        event.ID,
		Status:         models.RSVPAttending,
	}, "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if ge.Status != models.RSVPAttending {
		t.Errorf("status = %q, want attending", ge.Status)
	}
	if ge.ResponseDate == nil {
		t.Error("response date should be set on an answer")
	}
}

func TestSubmitRejectsNonAnswerStatus(t *testing.T) {
	svc, _, _, guest, event := newRSVPFixture(t)

	for _, status := range []models.RSVPStatus{models.RSVPInvited, models.RSVPNotInvited, "maybe"} {
		_, err := svc.Submit(context.Background(), &models.SubmitRSVPRequest{
			InvitationCode: "ABC123",
			GuestID:        guest.ID,
			EventID:        event.ID,
			Status:         status,
		}, "")
		if !errors.Is(err, ErrInvalidRSVPStatus) {
			t.Errorf("status %q: expected ErrInvalidRSVPStatus, got %v", status, err)
		}
	}
}

func TestSubmitRejectsGuestFromOtherHousehold(t *testing.T) {
	svc, store, _, _, event := newRSVPFixture(t)
	ctx := context.Background()

	other := &models.Household{Name: "Park Household", InvitationCode: "XYZ789"}
	store.Create(ctx, other)
	outsider := &models.Guest{HouseholdID: other.ID, FirstName: "Sue", LastName: "Park"}
	store.CreateGuest(ctx, outsider)
	store.Upsert(ctx, &models.GuestEvent{GuestID: outsider.ID, EventID: event.ID, Status: models.RSVPInvited})

	// Lee code, Park guest
	_, err := svc.Submit(ctx, &models.SubmitRSVPRequest{
		InvitationCode: "ABC123",
		GuestID:        outsider.ID,
		EventID:        event.ID,
		Status:         models.RSVPAttending,
	}, "")
	if !errors.Is(err, ErrGuestNotInHousehold) {
		t.Fatalf("expected ErrGuestNotInHousehold, got %v", err)
	}
}

func TestSubmitRequiresExistingAssociation(t *testing.T) {
	svc, _, _, guest, event := newRSVPFixture(t)

	// No RSVP row exists for this guest/event pair
	_, err := svc.Submit(context.Background(), &models.SubmitRSVPRequest{
		InvitationCode: "ABC123",
		GuestID:        guest.ID,
		EventID:        event.ID,
		Status:         models.RSVPDeclined,
	}, "")
	if !errors.Is(err, ErrNotInvited) {
		t.Fatalf("expected ErrNotInvited, got %v", err)
	}
}

func TestSetStatusAdminPath(t *testing.T) {
	svc, store, _, guest, event := newRSVPFixture(t)
	ctx := context.Background()

	// Admin may create the row and set any status, including not_invited
	ge, err := svc.SetStatus(ctx, &models.SetRSVPRequest{
		GuestID: guest.ID,
		EventID: event.ID,
		Status:  models.RSVPNotInvited,
	})
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if ge.Status != models.RSVPNotInvited {
		t.Errorf("status = %q", ge.Status)
	}
	if ge.ResponseDate != nil {
		t.Error("non-answer statuses should not carry a response date")
	}

	ge, err = svc.SetStatus(ctx, &models.SetRSVPRequest{
		GuestID: guest.ID,
		EventID: event.ID,
		Status:  models.RSVPDeclined,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ge.ResponseDate == nil {
		t.Error("declined should carry a response date")
	}

	stored, err := store.GetRSVP(ctx, guest.ID, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.RSVPDeclined {
		t.Errorf("stored status = %q", stored.Status)
	}

	// An admin edit restamps the answer; the earlier timestamp is not kept
	first := *ge.ResponseDate
	ge, err = svc.SetStatus(ctx, &models.SetRSVPRequest{
		GuestID: guest.ID,
		EventID: event.ID,
		Status:  models.RSVPAttending,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ge.ResponseDate == nil || ge.ResponseDate.Before(first) {
		t.Errorf("expected restamped response date, got %v (was %v)", ge.ResponseDate, first)
	}

	// Reverting to invited clears the recorded answer timestamp
	ge, err = svc.SetStatus(ctx, &models.SetRSVPRequest{
		GuestID: guest.ID,
		EventID: event.ID,
		Status:  models.RSVPInvited,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ge.ResponseDate != nil {
		t.Error("reverting to invited should clear the response date")
	}
}

func TestHouseholdViewReturnsGuestsWithRSVPs(t *testing.T) {
	svc, store, household, guest, event := newRSVPFixture(t)
	ctx := context.Background()

	store.Upsert(ctx, &models.GuestEvent{GuestID: guest.ID, EventID: event.ID, Status: models.RSVPInvited})

	view, err := svc.HouseholdView(ctx, "ABC123", "")
	if err != nil {
		t.Fatalf("household view failed: %v", err)
	}
	if view.Household.ID != household.ID {
		t.Errorf("wrong household: %d", view.Household.ID)
	}
	if len(view.Guests) != 1 {
		t.Fatalf("expected 1 guest, got %d", len(view.Guests))
	}
	if len(view.Guests[0].RSVPs) != 1 || view.Guests[0].RSVPs[0].Status != models.RSVPInvited {
		t.Errorf("unexpected rsvps: %+v", view.Guests[0].RSVPs)
	}
}
