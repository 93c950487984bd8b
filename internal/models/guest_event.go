package models

import "time"

// RSVPStatus represents the attendance confirmation status for one guest/event pair
type RSVPStatus string

const (
	RSVPNotInvited RSVPStatus = "not_invited"
	RSVPInvited    RSVPStatus = "invited"
	RSVPAttending  RSVPStatus = "attending"
	RSVPDeclined   RSVPStatus = "declined"
)

// Valid reports whether s is one of the known RSVP statuses
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPNotInvited, RSVPInvited, RSVPAttending, RSVPDeclined:
		return true
	}
	return false
}

// GuestEvent is the RSVP row for a guest/event pair.
// Absence of a row means the guest is not associated with the event at all;
// not_invited is an explicit admin-set status on an existing row.
type GuestEvent struct {
	GuestID      int        `json:"guest_id"`
	EventID      int        `json:"event_id"`
	Status       RSVPStatus `json:"status"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GuestEventWithNames is an RSVP row joined with guest and event names for admin tables
type GuestEventWithNames struct {
	GuestEvent
	GuestFirstName string `json:"guest_first_name"`
	GuestLastName  string `json:"guest_last_name"`
	EventName      string `json:"event_name"`
}

// SetRSVPRequest sets the status for one guest/event pair (admin path)
type SetRSVPRequest struct {
	GuestID int        `json:"guest_id"`
	EventID int        `json:"event_id"`
	Status  RSVPStatus `json:"status"`
}

// SubmitRSVPRequest is the household self-serve response for one guest/event pair
type SubmitRSVPRequest struct {
	InvitationCode string     `json:"invitation_code"`
	GuestID        int        `json:"guest_id"`
	EventID        int        `json:"event_id"`
	Status         RSVPStatus `json:"status"` // attending or declined only
}
