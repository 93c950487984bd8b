package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"wedding-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRSVPNotFound = errors.New("rsvp row not found")

// RSVPSnapshot is a prior answer preserved across a roster replace
type RSVPSnapshot struct {
	Status       models.RSVPStatus
	ResponseDate *time.Time
}

type GuestEventRepository struct {
	DB *pgxpool.Pool
}

func NewGuestEventRepository(db *pgxpool.Pool) *GuestEventRepository {
	return &GuestEventRepository{DB: db}
}

// Upsert creates or updates the RSVP row for a guest/event pair
func (r *GuestEventRepository) Upsert(ctx context.Context, ge *models.GuestEvent) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO guest_events(guest_id, event_id, status, response_date)
		 VALUES($1, $2, $3, $4)
		 ON CONFLICT (guest_id, event_id)
		 DO UPDATE SET status = EXCLUDED.status, response_date = EXCLUDED.response_date,
		               updated_at = NOW()
		 RETURNING created_at, updated_at`,
		ge.GuestID, ge.EventID, ge.Status, ge.ResponseDate,
	).Scan(&ge.CreatedAt, &ge.UpdatedAt)
}

// Get retrieves the RSVP row for a guest/event pair
func (r *GuestEventRepository) Get(ctx context.Context, guestID, eventID int) (*models.GuestEvent, error) {
	var ge models.GuestEvent
	err := r.DB.QueryRow(ctx,
		`SELECT guest_id, event_id, status, response_date, created_at, updated_at
		 FROM guest_events WHERE guest_id = $1 AND event_id = $2`, guestID, eventID,
	).Scan(&ge.GuestID, &ge.EventID, &ge.Status, &ge.ResponseDate, &ge.CreatedAt, &ge.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRSVPNotFound
		}
		return nil, err
	}
	return &ge, nil
}

// ListByGuest returns all RSVP rows for one guest
func (r *GuestEventRepository) ListByGuest(ctx context.Context, guestID int) ([]models.GuestEvent, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT guest_id, event_id, status, response_date, created_at, updated_at
		 FROM guest_events WHERE guest_id = $1 ORDER BY event_id`, guestID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []models.GuestEvent
	for rows.Next() {
		var ge models.GuestEvent
		if err := rows.Scan(&ge.GuestID, &ge.EventID, &ge.Status, &ge.ResponseDate,
			&ge.CreatedAt, &ge.UpdatedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, ge)
	}
	return rsvps, rows.Err()
}

// ListByEvent returns all RSVP rows for one event joined with guest names,
// for the admin RSVP table
func (r *GuestEventRepository) ListByEvent(ctx context.Context, eventID int) ([]models.GuestEventWithNames, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ge.guest_id, ge.event_id, ge.status, ge.response_date, ge.created_at,
		        ge.updated_at, g.first_name, g.last_name, e.name
		 FROM guest_events ge
		 JOIN guests g ON g.id = ge.guest_id
		 JOIN events e ON e.id = ge.event_id
		 WHERE ge.event_id = $1
		 ORDER BY g.last_name, g.first_name`, eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []models.GuestEventWithNames
	for rows.Next() {
		var ge models.GuestEventWithNames
		if err := rows.Scan(&ge.GuestID, &ge.EventID, &ge.Status, &ge.ResponseDate,
			&ge.CreatedAt, &ge.UpdatedAt, &ge.GuestFirstName, &ge.GuestLastName,
			&ge.EventName); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, ge)
	}
	return rsvps, rows.Err()
}

// Delete removes the RSVP row for a guest/event pair
func (r *GuestEventRepository) Delete(ctx context.Context, guestID, eventID int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM guest_events WHERE guest_id = $1 AND event_id = $2`, guestID, eventID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRSVPNotFound
	}
	return nil
}

// SnapshotByFullName returns every currently known guest's RSVP state keyed by
// lowercase "first last" full name, then by event ID. Taken before a
// replace-mode roster upload so answers survive for name-matched guests.
func (r *GuestEventRepository) SnapshotByFullName(ctx context.Context) (map[string]map[int]RSVPSnapshot, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT g.first_name, g.last_name, ge.event_id, ge.status, ge.response_date
		 FROM guests g
		 JOIN guest_events ge ON ge.guest_id = g.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[string]map[int]RSVPSnapshot)
	for rows.Next() {
		var first, last string
		var eventID int
		var status models.RSVPStatus
		var responseDate *time.Time
		if err := rows.Scan(&first, &last, &eventID, &status, &responseDate); err != nil {
			return nil, err
		}
		key := strings.ToLower(first + " " + last)
		if snapshot[key] == nil {
			snapshot[key] = make(map[int]RSVPSnapshot)
		}
		snapshot[key][eventID] = RSVPSnapshot{Status: status, ResponseDate: responseDate}
	}
	return snapshot, rows.Err()
}
