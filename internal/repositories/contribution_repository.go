package repositories

import (
	"context"

	"wedding-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ContributionRepository struct {
	DB *pgxpool.Pool
}

func NewContributionRepository(db *pgxpool.Pool) *ContributionRepository {
	return &ContributionRepository{DB: db}
}

// Create records a contribution. Amount zero means a guestbook message only.
func (r *ContributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO contributions(guest_id, amount, message)
		 VALUES($1, $2, $3)
		 RETURNING id, created_at`,
		c.GuestID, c.Amount, c.Message,
	).Scan(&c.ID, &c.CreatedAt)
}

// List returns all contributions, newest first
func (r *ContributionRepository) List(ctx context.Context) ([]*models.Contribution, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, guest_id, amount, message, created_at
		 FROM contributions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.GuestID, &c.Amount, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		contributions = append(contributions, &c)
	}
	return contributions, rows.Err()
}
