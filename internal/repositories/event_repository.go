package repositories

import (
	"context"
	"errors"

	"wedding-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository struct {
	DB *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{DB: db}
}

// Create inserts a new event. Marking an event primary clears the flag on
// every other event first.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if e.IsPrimary {
		if _, err := tx.Exec(ctx, `UPDATE events SET is_primary = FALSE WHERE is_primary`); err != nil {
			return err
		}
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO events(name, date, location, description, is_primary)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.Date, e.Location, e.Description, e.IsPrimary,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get retrieves an event by ID
func (r *EventRepository) Get(ctx context.Context, id int) (*models.Event, error) {
	var e models.Event
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, date, location, description, is_primary, created_at, updated_at
		 FROM events WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Description, &e.IsPrimary,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetPrimary returns the primary wedding event, or nil when none is flagged
func (r *EventRepository) GetPrimary(ctx context.Context) (*models.Event, error) {
	var e models.Event
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, date, location, description, is_primary, created_at, updated_at
		 FROM events WHERE is_primary LIMIT 1`,
	).Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Description, &e.IsPrimary,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// List returns all events ordered by date
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, date, location, description, is_primary, created_at, updated_at
		 FROM events ORDER BY date`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Description,
			&e.IsPrimary, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// Update updates an event
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if e.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE events SET is_primary = FALSE WHERE is_primary AND id <> $1`, e.ID); err != nil {
			return err
		}
	}
	_, err = tx.Exec(ctx,
		`UPDATE events
		 SET name = $1, date = $2, location = $3, description = $4, is_primary = $5,
		     updated_at = NOW()
		 WHERE id = $6`,
		e.Name, e.Date, e.Location, e.Description, e.IsPrimary, e.ID,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes an event and its RSVP rows
func (r *EventRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM guest_events WHERE event_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
