package models

// RosterRow is one parsed CSV row from a guest-roster upload
type RosterRow struct {
	FirstName           string
	LastName            string
	Email               string
	DietaryRestrictions string
}

// RosterUploadRequest drives one reconciliation run
type RosterUploadRequest struct {
	EventID      int    `json:"event_id"`
	CSV          string `json:"csv"`
	Replace      bool   `json:"replace"`       // Treat the roster as the full source of truth
	PreserveRSVP bool   `json:"preserve_rsvp"` // Keep prior answers for name-matched guests
}

// RosterUploadResult summarizes one reconciliation run
type RosterUploadResult struct {
	HouseholdsCreated int      `json:"households_created"`
	HouseholdsReused  int      `json:"households_reused"`
	GuestsCreated     int      `json:"guests_created"`
	GuestsFailed      int      `json:"guests_failed"`
	RowsSkipped       int      `json:"rows_skipped"`
	RowErrors         []string `json:"row_errors,omitempty"`
	HouseholdErrors   []string `json:"household_errors,omitempty"`
}
