package models

import "time"

// Guest represents a wedding guest belonging to exactly one household
type Guest struct {
	ID                  int       `json:"id"`
	HouseholdID         int       `json:"household_id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Email               *string   `json:"email,omitempty"`
	Phone               *string   `json:"phone,omitempty"`
	DietaryRestrictions *string   `json:"dietary_restrictions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// GuestWithRSVPs is a guest with per-event RSVP state embedded
type GuestWithRSVPs struct {
	Guest
	RSVPs []GuestEvent `json:"rsvps"`
}

// CreateGuestRequest for adding a guest to a household
type CreateGuestRequest struct {
	HouseholdID         int     `json:"household_id"`
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	Email               *string `json:"email,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	DietaryRestrictions *string `json:"dietary_restrictions,omitempty"`
}

// UpdateGuestRequest for admin guest edits
type UpdateGuestRequest struct {
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	Email               *string `json:"email,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	DietaryRestrictions *string `json:"dietary_restrictions,omitempty"`
}

// BulkDeleteGuestsRequest deletes several guests at once
type BulkDeleteGuestsRequest struct {
	GuestIDs []int `json:"guest_ids"`
}
