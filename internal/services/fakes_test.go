package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

// In-memory fakes for the store interfaces. They keep just enough behavior
// for the services under test: case-insensitive household names, cascade
// deletes, and the full-name RSVP snapshot.

type fakeStore struct {
	nextID     int
	households map[int]*models.Household
	guests     map[int]*models.Guest
	events     map[int]*models.Event
	rsvps      map[string]*models.GuestEvent // "guestID/eventID"
	audits     []*models.AuditLog

	failHouseholdNames map[string]bool // GetByName/Create failures by lowercase name
	failGuestNames     map[string]bool // guest Create failures by "first last"
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:             1,
		households:         make(map[int]*models.Household),
		guests:             make(map[int]*models.Guest),
		events:             make(map[int]*models.Event),
		rsvps:              make(map[string]*models.GuestEvent),
		failHouseholdNames: make(map[string]bool),
		failGuestNames:     make(map[string]bool),
	}
}

func (f *fakeStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func rsvpKey(guestID, eventID int) string {
	return fmt.Sprintf("%d/%d", guestID, eventID)
}

func (f *fakeStore) addEvent(name string, primary bool) *models.Event {
	e := &models.Event{ID: f.id(), Name: name, IsPrimary: primary}
	f.events[e.ID] = e
	return e
}

// --- HouseholdStore ---

func (f *fakeStore) Create(ctx context.Context, h *models.Household) error {
	if f.failHouseholdNames[strings.ToLower(h.Name)] {
		return fmt.Errorf("simulated insert failure for %q", h.Name)
	}
	h.ID = f.id()
	f.households[h.ID] = h
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id int) (*models.Household, error) {
	h, ok := f.households[id]
	if !ok {
		return nil, repositories.ErrHouseholdNotFound
	}
	return h, nil
}

func (f *fakeStore) GetByName(ctx context.Context, name string) (*models.Household, error) {
	for _, h := range f.households {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ResolveCode(ctx context.Context, code string) (int, error) {
	for _, h := range f.households {
		if strings.EqualFold(h.InvitationCode, code) {
			return h.ID, nil
		}
	}
	return 0, repositories.ErrHouseholdNotFound
}

func (f *fakeStore) List(ctx context.Context) ([]*models.Household, error) {
	var out []*models.Household
	for _, h := range f.households {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, h *models.Household) error {
	if _, ok := f.households[h.ID]; !ok {
		return repositories.ErrHouseholdNotFound
	}
	f.households[h.ID] = h
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int) error {
	for gid, g := range f.guests {
		if g.HouseholdID == id {
			for key, ge := range f.rsvps {
				if ge.GuestID == gid {
					delete(f.rsvps, key)
				}
			}
			delete(f.guests, gid)
		}
	}
	delete(f.households, id)
	return nil
}

func (f *fakeStore) PurgeEventRoster(ctx context.Context, eventID int) error {
	for key, ge := range f.rsvps {
		if ge.EventID == eventID {
			delete(f.rsvps, key)
		}
	}
	for gid := range f.guests {
		if !f.guestHasRSVPs(gid) {
			delete(f.guests, gid)
		}
	}
	for hid := range f.households {
		if !f.householdHasGuests(hid) {
			delete(f.households, hid)
		}
	}
	return nil
}

func (f *fakeStore) guestHasRSVPs(guestID int) bool {
	for _, ge := range f.rsvps {
		if ge.GuestID == guestID {
			return true
		}
	}
	return false
}

func (f *fakeStore) householdHasGuests(householdID int) bool {
	for _, g := range f.guests {
		if g.HouseholdID == householdID {
			return true
		}
	}
	return false
}

func (f *fakeStore) FindDuplicateGroups(ctx context.Context) ([]models.DuplicateHouseholdGroup, error) {
	byName := make(map[string][]*models.Household)
	for _, h := range f.households {
		key := strings.ToLower(h.Name)
		byName[key] = append(byName[key], h)
	}
	var groups []models.DuplicateHouseholdGroup
	for key, hs := range byName {
		if len(hs) > 1 {
			sort.Slice(hs, func(i, j int) bool { return hs[i].ID < hs[j].ID })
			group := models.DuplicateHouseholdGroup{Name: key}
			for _, h := range hs {
				group.Households = append(group.Households, *h)
			}
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func (f *fakeStore) ReassignGuests(ctx context.Context, fromID, toID int) (int, error) {
	moved := 0
	for _, g := range f.guests {
		if g.HouseholdID == fromID {
			g.HouseholdID = toID
			moved++
		}
	}
	return moved, nil
}

// --- GuestStore ---

func (f *fakeStore) CreateGuest(ctx context.Context, g *models.Guest) error {
	if f.failGuestNames[strings.ToLower(g.FirstName+" "+g.LastName)] {
		return fmt.Errorf("simulated insert failure for %s %s", g.FirstName, g.LastName)
	}
	g.ID = f.id()
	f.guests[g.ID] = g
	return nil
}

func (f *fakeStore) GetGuest(ctx context.Context, id int) (*models.Guest, error) {
	g, ok := f.guests[id]
	if !ok {
		return nil, repositories.ErrGuestNotFound
	}
	return g, nil
}

func (f *fakeStore) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var out []models.Guest
	for _, g := range f.guests {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeStore) ListByHousehold(ctx context.Context, householdID int) ([]models.Guest, error) {
	var out []models.Guest
	for _, g := range f.guests {
		if g.HouseholdID == householdID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateGuest(ctx context.Context, g *models.Guest) error {
	if _, ok := f.guests[g.ID]; !ok {
		return repositories.ErrGuestNotFound
	}
	f.guests[g.ID] = g
	return nil
}

func (f *fakeStore) DeleteGuest(ctx context.Context, id int) error {
	g, ok := f.guests[id]
	if !ok {
		return repositories.ErrGuestNotFound
	}
	for key, ge := range f.rsvps {
		if ge.GuestID == id {
			delete(f.rsvps, key)
		}
	}
	delete(f.guests, id)
	if !f.householdHasGuests(g.HouseholdID) {
		delete(f.households, g.HouseholdID)
	}
	return nil
}

func (f *fakeStore) BulkDelete(ctx context.Context, ids []int) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := f.DeleteGuest(context.Background(), id); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// --- GuestEventStore ---

func (f *fakeStore) Upsert(ctx context.Context, ge *models.GuestEvent) error {
	cp := *ge
	f.rsvps[rsvpKey(ge.GuestID, ge.EventID)] = &cp
	return nil
}

func (f *fakeStore) GetRSVP(ctx context.Context, guestID, eventID int) (*models.GuestEvent, error) {
	ge, ok := f.rsvps[rsvpKey(guestID, eventID)]
	if !ok {
		return nil, repositories.ErrRSVPNotFound
	}
	return ge, nil
}

func (f *fakeStore) ListByGuest(ctx context.Context, guestID int) ([]models.GuestEvent, error) {
	var out []models.GuestEvent
	for _, ge := range f.rsvps {
		if ge.GuestID == guestID {
			out = append(out, *ge)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByEvent(ctx context.Context, eventID int) ([]models.GuestEventWithNames, error) {
	var out []models.GuestEventWithNames
	for _, ge := range f.rsvps {
		if ge.EventID != eventID {
			continue
		}
		row := models.GuestEventWithNames{GuestEvent: *ge}
		if g, ok := f.guests[ge.GuestID]; ok {
			row.GuestFirstName = g.FirstName
			row.GuestLastName = g.LastName
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeStore) SnapshotByFullName(ctx context.Context) (map[string]map[int]repositories.RSVPSnapshot, error) {
	snapshot := make(map[string]map[int]repositories.RSVPSnapshot)
	for _, ge := range f.rsvps {
		g, ok := f.guests[ge.GuestID]
		if !ok {
			continue
		}
		key := strings.ToLower(g.FirstName + " " + g.LastName)
		if snapshot[key] == nil {
			snapshot[key] = make(map[int]repositories.RSVPSnapshot)
		}
		snapshot[key][ge.EventID] = repositories.RSVPSnapshot{
			Status:       ge.Status,
			ResponseDate: ge.ResponseDate,
		}
	}
	return snapshot, nil
}

// --- EventStore ---

func (f *fakeStore) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) GetPrimary(ctx context.Context) (*models.Event, error) {
	for _, e := range f.events {
		if e.IsPrimary {
			return e, nil
		}
	}
	return nil, nil
}

// --- AuditStore ---

func (f *fakeStore) CreateAudit(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = f.id()
	entry.CreatedAt = time.Now()
	f.audits = append(f.audits, entry)
	return nil
}

// Adapter views expose the fakeStore under each interface despite the
// overlapping method names (Create, Get, ListByEvent appear on several
// interfaces with different signatures).

type fakeHouseholds struct{ *fakeStore }

type fakeGuests struct{ *fakeStore }

func (f fakeGuests) Create(ctx context.Context, g *models.Guest) error { return f.CreateGuest(ctx, g) }
func (f fakeGuests) Get(ctx context.Context, id int) (*models.Guest, error) {
	return f.GetGuest(ctx, id)
}
func (f fakeGuests) List(ctx context.Context) ([]models.Guest, error) { return f.ListGuests(ctx) }
func (f fakeGuests) Update(ctx context.Context, g *models.Guest) error {
	return f.UpdateGuest(ctx, g)
}
func (f fakeGuests) Delete(ctx context.Context, id int) error { return f.DeleteGuest(ctx, id) }

type fakeGuestEvents struct{ *fakeStore }

func (f fakeGuestEvents) Get(ctx context.Context, guestID, eventID int) (*models.GuestEvent, error) {
	return f.GetRSVP(ctx, guestID, eventID)
}

func (f fakeGuestEvents) Delete(ctx context.Context, guestID, eventID int) error {
	key := rsvpKey(guestID, eventID)
	if _, ok := f.rsvps[key]; !ok {
		return repositories.ErrRSVPNotFound
	}
	delete(f.rsvps, key)
	return nil
}

type fakeEvents struct{ *fakeStore }

func (f fakeEvents) Get(ctx context.Context, id int) (*models.Event, error) {
	return f.GetEvent(ctx, id)
}

type fakeAudit struct{ *fakeStore }

func (f fakeAudit) Create(ctx context.Context, entry *models.AuditLog) error {
	return f.CreateAudit(ctx, entry)
}
