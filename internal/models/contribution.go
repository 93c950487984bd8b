package models

import "time"

// Contribution is a gift or guestbook entry from the public site.
// A zero amount is a guestbook message with no gift attached.
type Contribution struct {
	ID        int       `json:"id"`
	GuestID   *int      `json:"guest_id,omitempty"` // Nulled when the guest is deleted
	Amount    float64   `json:"amount"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContributionRequest for recording a contribution
type CreateContributionRequest struct {
	GuestID *int    `json:"guest_id,omitempty"`
	Amount  float64 `json:"amount"`
	Message *string `json:"message,omitempty"`
}
