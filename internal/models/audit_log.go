package models

import "time"

// Audit event types
const (
	AuditInvitationUsed = "invitation_used"
	AuditRosterUploaded = "roster_uploaded"
	AuditConsolidation  = "households_consolidated"
	AuditAdminLogin     = "admin_login"
	AuditGuestDeleted   = "guest_deleted"
)

// AuditLog records security-relevant actions (invitation code use, uploads, logins)
type AuditLog struct {
	ID          int       `json:"id"`
	EventType   string    `json:"event_type"`
	HouseholdID *int      `json:"household_id,omitempty"`
	UserID      *int      `json:"user_id,omitempty"`
	Description string    `json:"description"`
	ClientIP    string    `json:"client_ip,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
