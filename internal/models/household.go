package models

import "time"

// Household represents a named group of guests sharing one invitation code
// and postal address
type Household struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	InvitationCode string    `json:"invitation_code"` // 6-8 uppercase alphanumeric chars, unique
	Address        *string   `json:"address,omitempty"`
	GuestCount     int       `json:"guest_count,omitempty"` // Number of guests in this household
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HouseholdWithGuests is a household with its guest list embedded
type HouseholdWithGuests struct {
	Household
	Guests []Guest `json:"guests"`
}

// CreateHouseholdRequest for creating a new household
type CreateHouseholdRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// UpdateHouseholdRequest for updating a household
type UpdateHouseholdRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// DuplicateHouseholdGroup is a set of households sharing a case-insensitive name
type DuplicateHouseholdGroup struct {
	Name       string      `json:"name"`
	Households []Household `json:"households"`
}

// ConsolidationResult reports the outcome of a duplicate-household merge
type ConsolidationResult struct {
	GroupsMerged      int      `json:"groups_merged"`
	HouseholdsRemoved int      `json:"households_removed"`
	GuestsReassigned  int      `json:"guests_reassigned"`
	Errors            []string `json:"errors,omitempty"`
}
