package repositories

import (
	"context"

	"wedding-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditLogRepository struct {
	DB *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

// Create records an audit event
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO audit_logs(event_type, household_id, user_id, description, client_ip)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		entry.EventType, entry.HouseholdID, entry.UserID, entry.Description, entry.ClientIP,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// List returns recent audit events, newest first
func (r *AuditLogRepository) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, event_type, household_id, user_id, description, client_ip, created_at
		 FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.EventType, &e.HouseholdID, &e.UserID,
			&e.Description, &e.ClientIP, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
