package repositories

import (
	"context"
	"errors"

	"wedding-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGuestNotFound = errors.New("guest not found")

type GuestRepository struct {
	DB *pgxpool.Pool
}

func NewGuestRepository(db *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{DB: db}
}

// Create inserts a new guest
func (r *GuestRepository) Create(ctx context.Context, g *models.Guest) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO guests(household_id, first_name, last_name, email, phone, dietary_restrictions)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		g.HouseholdID, g.FirstName, g.LastName, g.Email, g.Phone, g.DietaryRestrictions,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// Get retrieves a guest by ID
func (r *GuestRepository) Get(ctx context.Context, id int) (*models.Guest, error) {
	var g models.Guest
	err := r.DB.QueryRow(ctx,
		`SELECT id, household_id, first_name, last_name, email, phone, dietary_restrictions,
		        created_at, updated_at
		 FROM guests WHERE id = $1`, id,
	).Scan(&g.ID, &g.HouseholdID, &g.FirstName, &g.LastName, &g.Email, &g.Phone,
		&g.DietaryRestrictions, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListByHousehold returns all guests in a household
func (r *GuestRepository) ListByHousehold(ctx context.Context, householdID int) ([]models.Guest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, household_id, first_name, last_name, email, phone, dietary_restrictions,
		        created_at, updated_at
		 FROM guests WHERE household_id = $1 ORDER BY last_name, first_name`, householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGuests(rows)
}

// List returns all guests
func (r *GuestRepository) List(ctx context.Context) ([]models.Guest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, household_id, first_name, last_name, email, phone, dietary_restrictions,
		        created_at, updated_at
		 FROM guests ORDER BY last_name, first_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGuests(rows)
}

func scanGuests(rows pgx.Rows) ([]models.Guest, error) {
	var guests []models.Guest
	for rows.Next() {
		var g models.Guest
		if err := rows.Scan(&g.ID, &g.HouseholdID, &g.FirstName, &g.LastName, &g.Email,
			&g.Phone, &g.DietaryRestrictions, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// Update updates a guest's editable fields
func (r *GuestRepository) Update(ctx context.Context, g *models.Guest) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE guests
		 SET first_name = $1, last_name = $2, email = $3, phone = $4,
		     dietary_restrictions = $5, updated_at = NOW()
		 WHERE id = $6`,
		g.FirstName, g.LastName, g.Email, g.Phone, g.DietaryRestrictions, g.ID,
	)
	return err
}

// Delete removes a guest and its RSVP rows in one transaction. The owning
// household is deleted too when this was its last guest.
func (r *GuestRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var householdID int
	err = tx.QueryRow(ctx, `SELECT household_id FROM guests WHERE id = $1`, id).Scan(&householdID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrGuestNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM guest_events WHERE guest_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM households h
		 WHERE h.id = $1
		   AND NOT EXISTS (SELECT 1 FROM guests g WHERE g.household_id = h.id)`,
		householdID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// BulkDelete removes several guests (and their RSVP rows and any emptied
// households) in one transaction. Returns the number of guests deleted.
func (r *GuestRepository) BulkDelete(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM guest_events WHERE guest_id = ANY($1)`, ids); err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM guests WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM households h
		 WHERE NOT EXISTS (SELECT 1 FROM guests g WHERE g.household_id = h.id)`); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
