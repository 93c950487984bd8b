package repositories

import (
	"context"
	"errors"
	"strings"

	"wedding-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrHouseholdNotFound = errors.New("household not found")

type HouseholdRepository struct {
	DB *pgxpool.Pool
}

func NewHouseholdRepository(db *pgxpool.Pool) *HouseholdRepository {
	return &HouseholdRepository{DB: db}
}

// Create inserts a new household
func (r *HouseholdRepository) Create(ctx context.Context, h *models.Household) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO households(name, invitation_code, address)
		 VALUES($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		h.Name, h.InvitationCode, h.Address,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
}

// Get retrieves a household by ID
func (r *HouseholdRepository) Get(ctx context.Context, id int) (*models.Household, error) {
	var h models.Household
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, invitation_code, address, created_at, updated_at
		 FROM households WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.InvitationCode, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHouseholdNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByName retrieves a household by case-insensitive name match.
// Returns nil (no error) when no household matches.
func (r *HouseholdRepository) GetByName(ctx context.Context, name string) (*models.Household, error) {
	var h models.Household
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, invitation_code, address, created_at, updated_at
		 FROM households WHERE LOWER(name) = LOWER($1)
		 ORDER BY id LIMIT 1`, strings.TrimSpace(name),
	).Scan(&h.ID, &h.Name, &h.InvitationCode, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// ResolveCode resolves a sanitized invitation code to a household ID via the
// server-side validator function. Returns ErrHouseholdNotFound when no
// household matches.
func (r *HouseholdRepository) ResolveCode(ctx context.Context, code string) (int, error) {
	var id *int
	err := r.DB.QueryRow(ctx,
		`SELECT resolve_invitation_code($1)`, code,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, ErrHouseholdNotFound
	}
	return *id, nil
}

// List returns all households with their guest counts
func (r *HouseholdRepository) List(ctx context.Context) ([]*models.Household, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT h.id, h.name, h.invitation_code, h.address, h.created_at, h.updated_at,
		        COUNT(g.id) AS guest_count
		 FROM households h
		 LEFT JOIN guests g ON g.household_id = h.id
		 GROUP BY h.id
		 ORDER BY h.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var households []*models.Household
	for rows.Next() {
		var h models.Household
		if err := rows.Scan(&h.ID, &h.Name, &h.InvitationCode, &h.Address,
			&h.CreatedAt, &h.UpdatedAt, &h.GuestCount); err != nil {
			return nil, err
		}
		households = append(households, &h)
	}
	return households, rows.Err()
}

// Update updates a household's name and address
func (r *HouseholdRepository) Update(ctx context.Context, h *models.Household) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE households SET name = $1, address = $2, updated_at = NOW()
		 WHERE id = $3`,
		h.Name, h.Address, h.ID,
	)
	return err
}

// Delete removes a household and everything under it (RSVP rows, then guests,
// then the household) in a single transaction.
func (r *HouseholdRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM guest_events
		 WHERE guest_id IN (SELECT id FROM guests WHERE household_id = $1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM guests WHERE household_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM households WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PurgeEventRoster removes every guest-event association for the target event,
// then deletes guests left with zero associations across any event, then
// deletes households left with zero guests. The whole cascade runs in one
// transaction so a failure cannot leave orphaned guests or households.
func (r *HouseholdRepository) PurgeEventRoster(ctx context.Context, eventID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM guest_events WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM guests g
		 WHERE NOT EXISTS (SELECT 1 FROM guest_events ge WHERE ge.guest_id = g.id)`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM households h
		 WHERE NOT EXISTS (SELECT 1 FROM guests g WHERE g.household_id = h.id)`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// FindDuplicateGroups returns groups of households sharing a case-insensitive
// name, ordered so the oldest household leads each group.
func (r *HouseholdRepository) FindDuplicateGroups(ctx context.Context) ([]models.DuplicateHouseholdGroup, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT h.id, h.name, h.invitation_code, h.address, h.created_at, h.updated_at
		 FROM households h
		 WHERE LOWER(h.name) IN (
		     SELECT LOWER(name) FROM households GROUP BY LOWER(name) HAVING COUNT(*) > 1
		 )
		 ORDER BY LOWER(h.name), h.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.DuplicateHouseholdGroup
	var current *models.DuplicateHouseholdGroup
	for rows.Next() {
		var h models.Household
		if err := rows.Scan(&h.ID, &h.Name, &h.InvitationCode, &h.Address,
			&h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		key := strings.ToLower(h.Name)
		if current == nil || strings.ToLower(current.Name) != key {
			groups = append(groups, models.DuplicateHouseholdGroup{Name: h.Name})
			current = &groups[len(groups)-1]
		}
		current.Households = append(current.Households, h)
	}
	return groups, rows.Err()
}

// ReassignGuests moves every guest from one household to another
func (r *HouseholdRepository) ReassignGuests(ctx context.Context, fromID, toID int) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE guests SET household_id = $1, updated_at = NOW() WHERE household_id = $2`,
		toID, fromID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
