package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

var rosterAllowedHeaders = map[string]bool{
	"first_name":           true,
	"last_name":            true,
	"email":                true,
	"dietary_restrictions": true,
}

// HeaderError reports every header violation found in an uploaded roster
type HeaderError struct {
	Violations []string
}

func (e *HeaderError) Error() string {
	return "invalid CSV headers: " + strings.Join(e.Violations, "; ")
}

// RosterService synchronizes an uploaded guest roster into the household,
// guest and RSVP tables for one target event.
type RosterService struct {
	householdSvc *HouseholdService
	households   HouseholdStore
	guests       GuestStore
	guestEvents  GuestEventStore
	events       EventStore
	audit        AuditStore
	publisher    Publisher
}

func NewRosterService(
	householdSvc *HouseholdService,
	households HouseholdStore,
	guests GuestStore,
	guestEvents GuestEventStore,
	events EventStore,
	audit AuditStore,
	publisher Publisher,
) *RosterService {
	return &RosterService{
		householdSvc: householdSvc,
		households:   households,
		guests:       guests,
		guestEvents:  guestEvents,
		events:       events,
		audit:        audit,
		publisher:    publisher,
	}
}

// ParseRoster parses roster CSV content. Commas are split naively (no quoting
// support). The header row must be a subset of
// {first_name,last_name,email,dietary_restrictions} and must contain
// first_name and last_name; any violation aborts parsing with a HeaderError.
// Blank and short rows are silently dropped; rows with too many cells or a
// missing required name are reported in rowErrors.
func ParseRoster(content string) (rows []models.RosterRow, skipped int, rowErrors []string, err error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	// Find the header line
	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, 0, nil, &HeaderError{Violations: []string{"empty file"}}
	}

	headers := splitCells(lines[headerIdx])
	var violations []string
	seen := make(map[string]int)
	for _, h := range headers {
		key := strings.ToLower(h)
		if !rosterAllowedHeaders[key] {
			violations = append(violations, fmt.Sprintf("unknown column %q", h))
		}
		seen[key]++
	}
	for key, n := range seen {
		if n > 1 {
			violations = append(violations, fmt.Sprintf("duplicate column %q", key))
		}
	}
	if seen["first_name"] == 0 {
		violations = append(violations, "missing required column \"first_name\"")
	}
	if seen["last_name"] == 0 {
		violations = append(violations, "missing required column \"last_name\"")
	}
	if len(violations) > 0 {
		return nil, 0, nil, &HeaderError{Violations: violations}
	}

	colIdx := make(map[string]int, len(headers))
	for i, h := range headers {
		colIdx[strings.ToLower(h)] = i
	}

	for lineNo, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitCells(line)
		if len(cells) < len(headers) {
			skipped++
			continue
		}
		if len(cells) > len(headers) {
			rowErrors = append(rowErrors,
				fmt.Sprintf("row %d: expected %d cells, got %d", headerIdx+lineNo+2, len(headers), len(cells)))
			continue
		}

		row := models.RosterRow{
			FirstName: cells[colIdx["first_name"]],
			LastName:  cells[colIdx["last_name"]],
		}
		if i, ok := colIdx["email"]; ok {
			row.Email = cells[i]
		}
		if i, ok := colIdx["dietary_restrictions"]; ok {
			row.DietaryRestrictions = cells[i]
		}
		if row.FirstName == "" || row.LastName == "" {
			rowErrors = append(rowErrors,
				fmt.Sprintf("row %d: first_name and last_name are required", headerIdx+lineNo+2))
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, rowErrors, nil
}

func splitCells(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// householdGroup is one surname group from the roster
type householdGroup struct {
	lastName string // as first seen in the roster
	rows     []models.RosterRow
}

// groupBySurname groups roster rows by lowercase last name, preserving the
// order surnames first appear in the roster
func groupBySurname(rows []models.RosterRow) []householdGroup {
	index := make(map[string]int)
	var groups []householdGroup
	for _, row := range rows {
		key := strings.ToLower(row.LastName)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, householdGroup{lastName: row.LastName})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}

// Reconcile synchronizes the uploaded roster into the database for the target
// event.
//
// In replace mode the roster is the full source of truth: every existing
// association for the target event is removed, along with guests left with no
// associations and households left with no guests (one transaction). With
// preserve on, prior RSVP answers are snapshotted first, keyed by lowercase
// full name, and re-applied to re-uploaded guests.
//
// Each surname group becomes one "{LastName} Household", reusing an existing
// case-insensitive name match. A failure inside one group fails only that
// group's guests; the run continues and the result carries the error counts.
func (s *RosterService) Reconcile(ctx context.Context, req *models.RosterUploadRequest, userID int) (*models.RosterUploadResult, error) {
	if req.EventID <= 0 {
		return nil, errors.New("event_id is required")
	}
	if _, err := s.events.Get(ctx, req.EventID); err != nil {
		return nil, fmt.Errorf("target event: %w", err)
	}

	rows, skipped, rowErrors, err := ParseRoster(req.CSV)
	if err != nil {
		return nil, err
	}

	result := &models.RosterUploadResult{
		RowsSkipped: skipped,
		RowErrors:   rowErrors,
	}

	// Snapshot prior answers before the replace cascade wipes them.
	var snapshot map[string]map[int]repositories.RSVPSnapshot
	if req.Replace && req.PreserveRSVP {
		snapshot, err = s.guestEvents.SnapshotByFullName(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot rsvp state: %w", err)
		}
	}

	if req.Replace {
		if err := s.households.PurgeEventRoster(ctx, req.EventID); err != nil {
			return nil, fmt.Errorf("purge prior roster: %w", err)
		}
		publish(s.publisher, "guest_events", "truncate", req.EventID)
	}

	primary, err := s.events.GetPrimary(ctx)
	if err != nil {
		return nil, fmt.Errorf("look up primary event: %w", err)
	}

	for _, group := range groupBySurname(rows) {
		name := group.lastName + " Household"
		household, created, err := s.householdSvc.FindOrCreate(ctx, name)
		if err != nil {
			log.Printf("Roster upload: household %q failed: %v", name, err)
			result.GuestsFailed += len(group.rows)
			result.HouseholdErrors = append(result.HouseholdErrors,
				fmt.Sprintf("household %q: %v", name, err))
			continue
		}
		if created {
			result.HouseholdsCreated++
		} else {
			result.HouseholdsReused++
		}

		for _, row := range group.rows {
			if err := s.insertGuest(ctx, household.ID, row, req.EventID, primary, snapshot); err != nil {
				log.Printf("Roster upload: guest %s %s failed: %v", row.FirstName, row.LastName, err)
				result.GuestsFailed++
				result.HouseholdErrors = append(result.HouseholdErrors,
					fmt.Sprintf("guest %s %s: %v", row.FirstName, row.LastName, err))
				continue
			}
			result.GuestsCreated++
		}
	}

	if s.audit != nil {
		_ = s.audit.Create(ctx, &models.AuditLog{
			EventType: models.AuditRosterUploaded,
			UserID:    &userID,
			Description: fmt.Sprintf(
				"Roster upload for event %d: %d guests created, %d failed, %d rows skipped (replace=%t preserve=%t)",
				req.EventID, result.GuestsCreated, result.GuestsFailed, result.RowsSkipped,
				req.Replace, req.PreserveRSVP),
		})
	}

	return result, nil
}

// insertGuest inserts one roster guest and upserts its RSVP rows for the
// target event and, when different, the primary wedding event. Preserved
// answers win over the invited/NULL default.
func (s *RosterService) insertGuest(
	ctx context.Context,
	householdID int,
	row models.RosterRow,
	eventID int,
	primary *models.Event,
	snapshot map[string]map[int]repositories.RSVPSnapshot,
) error {
	guest := &models.Guest{
		HouseholdID: householdID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
	}
	if row.Email != "" {
		guest.Email = &row.Email
	}
	if row.DietaryRestrictions != "" {
		guest.DietaryRestrictions = &row.DietaryRestrictions
	}
	if err := s.guests.Create(ctx, guest); err != nil {
		return fmt.Errorf("insert guest: %w", err)
	}
	publish(s.publisher, "guests", "insert", guest.ID)

	prior := snapshot[strings.ToLower(row.FirstName+" "+row.LastName)]

	if err := s.upsertRSVP(ctx, guest.ID, eventID, prior); err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}
	if primary != nil && primary.ID != eventID {
		if err := s.upsertRSVP(ctx, guest.ID, primary.ID, prior); err != nil {
			return fmt.Errorf("upsert primary-event rsvp: %w", err)
		}
	}
	return nil
}

func (s *RosterService) upsertRSVP(ctx context.Context, guestID, eventID int, prior map[int]repositories.RSVPSnapshot) error {
	status := models.RSVPInvited
	var responseDate *time.Time
	if snap, ok := prior[eventID]; ok {
		status = snap.Status
		responseDate = snap.ResponseDate
	}

	ge := &models.GuestEvent{
		GuestID:      guestID,
		EventID:      eventID,
		Status:       status,
		ResponseDate: responseDate,
	}
	if err := s.guestEvents.Upsert(ctx, ge); err != nil {
		return err
	}
	publish(s.publisher, "guest_events", "upsert", guestID)
	return nil
}
