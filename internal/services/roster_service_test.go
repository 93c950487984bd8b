package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"wedding-backend/internal/models"
)

func newRosterFixture(t *testing.T) (*RosterService, *fakeStore, *models.Event, *models.Event) {
	t.Helper()
	store := newFakeStore()
	primary := store.addEvent("Wedding Ceremony", true)
	reception := store.addEvent("Reception", false)

	householdSvc := NewHouseholdService(fakeHouseholds{store}, fakeGuests{store}, fakeAudit{store}, nil)
	svc := NewRosterService(householdSvc, fakeHouseholds{store}, fakeGuests{store},
		fakeGuestEvents{store}, fakeEvents{store}, fakeAudit{store}, nil)
	return svc, store, primary, reception
}

func TestParseRosterRejectsUnknownHeader(t *testing.T) {
	_, _, _, err := ParseRoster("first_name,last_name,favorite_color\nAnna,Lee,blue\n")
	if err == nil {
		t.Fatal("expected header error")
	}
	headerErr, ok := err.(*HeaderError)
	if !ok {
		t.Fatalf("expected *HeaderError, got %T", err)
	}
	if len(headerErr.Violations) != 1 || !strings.Contains(headerErr.Violations[0], "favorite_color") {
		t.Fatalf("unexpected violations: %v", headerErr.Violations)
	}
}

func TestParseRosterReportsAllViolations(t *testing.T) {
	_, _, _, err := ParseRoster("first_name,first_name,color\nAnna,Anna,blue\n")
	headerErr, ok := err.(*HeaderError)
	if !ok {
		t.Fatalf("expected *HeaderError, got %v", err)
	}
	// unknown column, duplicate column, and missing last_name all reported
	if len(headerErr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", headerErr.Violations)
	}
}

func TestParseRosterRowHandling(t *testing.T) {
	csv := "first_name,last_name,email\n" +
		"Anna,Lee,anna@example.com\n" +
		"\n" + // blank, dropped silently
		"Tom\n" + // too short, skipped
		"Sue,Park,sue@example.com,extra\n" + // too long, row error
		",Lee,noname@example.com\n" // missing first name, row error

	rows, skipped, rowErrors, err := ParseRoster(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].FirstName != "Anna" {
		t.Fatalf("expected only Anna parsed, got %+v", rows)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrors)
	}
}

func TestReconcileGroupsBySurname(t *testing.T) {
	svc, store, primary, _ := newRosterFixture(t)

	csv := "first_name,last_name\nAnna,Lee\nTom,Lee\nSue,Park\n"
	result, err := svc.Reconcile(context.Background(), &models.RosterUploadRequest{
		EventID: primary.ID,
		CSV:     csv,
	}, 1)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if result.HouseholdsCreated != 2 {
		t.Errorf("expected 2 households created, got %d", result.HouseholdsCreated)
	}
	if result.GuestsCreated != 3 {
		t.Errorf("expected 3 guests created, got %d", result.GuestsCreated)
	}

	lee, _ := store.GetByName(context.Background(), "Lee Household")
	if lee == nil {
		t.Fatal("Lee Household missing")
	}
	guests, _ := store.ListByHousehold(context.Background(), lee.ID)
	if len(guests) != 2 {
		t.Errorf("expected 2 guests in Lee Household, got %d", len(guests))
	}
	if len(lee.InvitationCode) != 6 {
		t.Errorf("expected 6-char invitation code, got %q", lee.InvitationCode)
	}

	// Every guest got an invited row for the target (primary) event
	for id := range store.guests {
		ge, err := store.GetRSVP(context.Background(), id, primary.ID)
		if err != nil {
			t.Fatalf("guest %d has no rsvp row: %v", id, err)
		}
		if ge.Status != models.RSVPInvited {
			t.Errorf("guest %d status = %q, want invited", id, ge.Status)
		}
	}
}

func TestReconcileReusesHouseholdCaseInsensitively(t *testing.T) {
	svc, store, primary, _ := newRosterFixture(t)

	existing := &models.Household{Name: "LEE HOUSEHOLD", InvitationCode: "AAAAAA"}
	if err := store.Create(context.Background(), existing); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Reconcile(context.Background(), &models.RosterUploadRequest{
		EventID: primary.ID,
		CSV:     "first_name,last_name\nAnna,Lee\n",
	}, 1)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.HouseholdsReused != 1 || result.HouseholdsCreated != 0 {
		t.Fatalf("expected reuse, got created=%d reused=%d",
			result.HouseholdsCreated, result.HouseholdsReused)
	}
	if len(store.households) != 1 {
		t.Fatalf("expected 1 household, got %d", len(store.households))
	}
}

func TestReconcileAddsPrimaryEventAssociation(t *testing.T) {
	svc, store, primary, reception := newRosterFixture(t)

	_, err := svc.Reconcile(context.Background(), &models.RosterUploadRequest{
		EventID: reception.ID,
		CSV:     "first_name,last_name\nAnna,Lee\n",
	}, 1)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	for id := range store.guests {
		if _, err := store.GetRSVP(context.Background(), id, reception.ID); err != nil {
			t.Errorf("guest %d missing reception rsvp: %v", id, err)
		}
		if _, err := store.GetRSVP(context.Background(), id, primary.ID); err != nil {
			t.Errorf("guest %d missing primary-event rsvp: %v", id, err)
		}
	}
}

func TestReconcileReplacePreservesAnswers(t *testing.T) {
	svc, store, primary, _ := newRosterFixture(t)
	ctx := context.Background()
	csv := "first_name,last_name\nAnna,Lee\nTom,Lee\n"

	if _, err := svc.Reconcile(ctx, &models.RosterUploadRequest{
		EventID: primary.ID, CSV: csv,
	}, 1); err != nil {
		t.Fatal(err)
	}

	// Anna answers attending
	var annaID int
	for id, g := range store.guests {
		if g.FirstName == "Anna" {
			annaID = id
		}
	}
	answered := time.Now().Add(-time.Hour)
	store.Upsert(ctx, &models.GuestEvent{
		GuestID: annaID, EventID: primary.ID,
		Status: models.RSVPAttending, ResponseDate: &answered,
	})

	// Re-upload the same roster with replace+preserve
	result, err := svc.Reconcile(ctx, &models.RosterUploadRequest{
		EventID: primary.ID, CSV: csv, Replace: true, PreserveRSVP: true,
	}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.GuestsCreated != 2 {
		t.Fatalf("expected 2 guests recreated, got %d", result.GuestsCreated)
	}

	var found bool
	for id, g := range store.guests {
		ge, err := store.GetRSVP(ctx, id, primary.ID)
		if err != nil {
			t.Fatalf("guest %s missing rsvp: %v", g.FirstName, err)
		}
		switch g.FirstName {
		case "Anna":
			found = true
			if ge.Status != models.RSVPAttending {
				t.Errorf("Anna's answer lost: status = %q", ge.Status)
			}
			if ge.ResponseDate == nil || !ge.ResponseDate.Equal(answered) {
				t.Errorf("Anna's response date lost: %v", ge.ResponseDate)
			}
		case "Tom":
			if ge.Status != models.RSVPInvited {
				t.Errorf("Tom's status = %q, want invited", ge.Status)
			}
		}
	}
	if !found {
		t.Fatal("Anna not re-created")
	}
}

func TestReconcileReplaceDropsRemovedGuests(t *testing.T) {
	svc, store, primary, _ := newRosterFixture(t)
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx, &models.RosterUploadRequest{
		EventID: primary.ID,
		CSV:     "first_name,last_name\nAnna,Lee\nSue,Park\n",
	}, 1); err != nil {
		t.Fatal(err)
	}

	// Sue is dropped from the new roster
	if _, err := svc.Reconcile(ctx, &models.RosterUploadRequest{
		EventID: primary.ID,
		CSV:     "first_name,last_name\nAnna,Lee\n",
		Replace: true,
	}, 1); err != nil {
		t.Fatal(err)
	}

	for _, g := range store.guests {
		if g.FirstName == "Sue" {
			t.Error("Sue should have been removed by the replace run")
		}
	}
	if park, _ := store.GetByName(ctx, "Park Household"); park != nil {
		t.Error("emptied Park Household should have been removed")
	}
}

func TestReconcileIsolatesHouseholdFailures(t *testing.T) {
	svc, store, primary, _ := newRosterFixture(t)
	store.failGuestNames["tom lee"] = true

	result, err := svc.Reconcile(context.Background(), &models.RosterUploadRequest{
		EventID: primary.ID,
		CSV:     "first_name,last_name\nAnna,Lee\nTom,Lee\nSue,Park\n",
	}, 1)
	if err != nil {
		t.Fatalf("reconcile should not fail outright: %v", err)
	}
	if result.GuestsCreated != 2 {
		t.Errorf("expected 2 guests created, got %d", result.GuestsCreated)
	}
	if result.GuestsFailed != 1 {
		t.Errorf("expected 1 guest failed, got %d", result.GuestsFailed)
	}
	if len(result.HouseholdErrors) != 1 {
		t.Errorf("expected 1 recorded error, got %v", result.HouseholdErrors)
	}
}

func TestReconcileRejectsUnknownEvent(t *testing.T) {
	svc, _, _, _ := newRosterFixture(t)

	_, err := svc.Reconcile(context.Background(), &models.RosterUploadRequest{
		EventID: 999,
		CSV:     "first_name,last_name\nAnna,Lee\n",
	}, 1)
	if err == nil {
		t.Fatal("expected error for unknown event")
	}
}
