package models

import "time"

// Event represents a wedding-related event guests can be invited to
type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
	IsPrimary   bool      `json:"is_primary"` // The main wedding event
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEventRequest for creating a new event
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
	IsPrimary   bool      `json:"is_primary"`
}

// UpdateEventRequest for updating an event
type UpdateEventRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
	IsPrimary   bool      `json:"is_primary"`
}
