package services

import (
	"context"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

// Narrow store interfaces consumed by the services. The concrete pgx
// repositories satisfy them; tests substitute in-memory fakes.

type HouseholdStore interface {
	Create(ctx context.Context, h *models.Household) error
	Get(ctx context.Context, id int) (*models.Household, error)
	GetByName(ctx context.Context, name string) (*models.Household, error)
	ResolveCode(ctx context.Context, code string) (int, error)
	List(ctx context.Context) ([]*models.Household, error)
	Update(ctx context.Context, h *models.Household) error
	Delete(ctx context.Context, id int) error
	PurgeEventRoster(ctx context.Context, eventID int) error
	FindDuplicateGroups(ctx context.Context) ([]models.DuplicateHouseholdGroup, error)
	ReassignGuests(ctx context.Context, fromID, toID int) (int, error)
}

type GuestStore interface {
	Create(ctx context.Context, g *models.Guest) error
	Get(ctx context.Context, id int) (*models.Guest, error)
	List(ctx context.Context) ([]models.Guest, error)
	ListByHousehold(ctx context.Context, householdID int) ([]models.Guest, error)
	Update(ctx context.Context, g *models.Guest) error
	Delete(ctx context.Context, id int) error
	BulkDelete(ctx context.Context, ids []int) (int, error)
}

type GuestEventStore interface {
	Upsert(ctx context.Context, ge *models.GuestEvent) error
	Get(ctx context.Context, guestID, eventID int) (*models.GuestEvent, error)
	Delete(ctx context.Context, guestID, eventID int) error
	ListByGuest(ctx context.Context, guestID int) ([]models.GuestEvent, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.GuestEventWithNames, error)
	SnapshotByFullName(ctx context.Context) (map[string]map[int]repositories.RSVPSnapshot, error)
}

type EventStore interface {
	Get(ctx context.Context, id int) (*models.Event, error)
	GetPrimary(ctx context.Context) (*models.Event, error)
}

type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id int) (*models.User, error)
}

// Publisher pushes table-change notifications to realtime subscribers.
// Implemented by the websocket hub; a nil publisher is a no-op.
type Publisher interface {
	Publish(table, action string, id int)
}

func publish(p Publisher, table, action string, id int) {
	if p != nil {
		p.Publish(table, action, id)
	}
}
