package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"

	"wedding-backend/internal/models"
)

var (
	ErrDuplicateHousehold = errors.New("a household with this name already exists")
	ErrHouseholdNameEmpty = errors.New("household name is required")
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HouseholdService is the single creation path for households. Every caller
// (manual admin create, roster upload) goes through the same case-insensitive
// duplicate check, so the two paths cannot diverge on the uniqueness invariant.
type HouseholdService struct {
	households HouseholdStore
	guests     GuestStore
	audit      AuditStore
	publisher  Publisher
}

func NewHouseholdService(households HouseholdStore, guests GuestStore, audit AuditStore, publisher Publisher) *HouseholdService {
	return &HouseholdService{households: households, guests: guests, audit: audit, publisher: publisher}
}

// GenerateInvitationCode returns 6 random base-36 characters, uppercased
func GenerateInvitationCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand read failures are not recoverable here
		panic(fmt.Sprintf("generate invitation code: %v", err))
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}

// Create makes a new household after checking no case-insensitive name match
// exists. Returns ErrDuplicateHousehold otherwise.
func (s *HouseholdService) Create(ctx context.Context, req *models.CreateHouseholdRequest) (*models.Household, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrHouseholdNameEmpty
	}

	existing, err := s.households.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check household name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateHousehold
	}

	h := &models.Household{
		Name:           name,
		InvitationCode: GenerateInvitationCode(),
		Address:        req.Address,
	}
	if err := s.households.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create household: %w", err)
	}
	publish(s.publisher, "households", "insert", h.ID)
	return h, nil
}

// FindOrCreate reuses an existing household with a case-insensitive name match
// or creates a new one with a fresh invitation code. Used by the roster upload
// path so re-uploads do not spawn duplicate households.
func (s *HouseholdService) FindOrCreate(ctx context.Context, name string) (*models.Household, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrHouseholdNameEmpty
	}

	existing, err := s.households.GetByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("check household name: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	h := &models.Household{
		Name:           name,
		InvitationCode: GenerateInvitationCode(),
	}
	if err := s.households.Create(ctx, h); err != nil {
		return nil, false, fmt.Errorf("create household: %w", err)
	}
	publish(s.publisher, "households", "insert", h.ID)
	return h, true, nil
}

// Get returns a household with its guest list embedded
func (s *HouseholdService) Get(ctx context.Context, id int) (*models.HouseholdWithGuests, error) {
	h, err := s.households.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	guests, err := s.guests.ListByHousehold(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list household guests: %w", err)
	}
	return &models.HouseholdWithGuests{Household: *h, Guests: guests}, nil
}

// List returns all households with guest counts
func (s *HouseholdService) List(ctx context.Context) ([]*models.Household, error) {
	return s.households.List(ctx)
}

// Update renames a household, keeping the duplicate-name invariant
func (s *HouseholdService) Update(ctx context.Context, id int, req *models.UpdateHouseholdRequest) (*models.Household, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrHouseholdNameEmpty
	}

	existing, err := s.households.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check household name: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, ErrDuplicateHousehold
	}

	h, err := s.households.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Name = name
	h.Address = req.Address
	if err := s.households.Update(ctx, h); err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	publish(s.publisher, "households", "update", h.ID)
	return h, nil
}

// Delete removes a household and everything under it
func (s *HouseholdService) Delete(ctx context.Context, id int) error {
	if err := s.households.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	publish(s.publisher, "households", "delete", id)
	return nil
}

// ScanDuplicates returns groups of households sharing a case-insensitive name
func (s *HouseholdService) ScanDuplicates(ctx context.Context) ([]models.DuplicateHouseholdGroup, error) {
	return s.households.FindDuplicateGroups(ctx)
}

// Consolidate merges each duplicate group into its first household: guests
// are reassigned to the keeper, then the emptied households are deleted.
// Best effort: a failure on one household is recorded and the rest proceed.
func (s *HouseholdService) Consolidate(ctx context.Context, userID int) (*models.ConsolidationResult, error) {
	groups, err := s.households.FindDuplicateGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan duplicate households: %w", err)
	}

	result := &models.ConsolidationResult{}
	for _, group := range groups {
		if len(group.Households) < 2 {
			continue
		}
		keeper := group.Households[0]
		merged := false
		for _, dup := range group.Households[1:] {
			moved, err := s.households.ReassignGuests(ctx, dup.ID, keeper.ID)
			if err != nil {
				log.Printf("Consolidation: failed to reassign guests from household %d: %v", dup.ID, err)
				result.Errors = append(result.Errors,
					fmt.Sprintf("household %q (id %d): %v", dup.Name, dup.ID, err))
				continue
			}
			result.GuestsReassigned += moved

			if err := s.households.Delete(ctx, dup.ID); err != nil {
				log.Printf("Consolidation: failed to delete household %d: %v", dup.ID, err)
				result.Errors = append(result.Errors,
					fmt.Sprintf("household %q (id %d): %v", dup.Name, dup.ID, err))
				continue
			}
			result.HouseholdsRemoved++
			merged = true
			publish(s.publisher, "households", "delete", dup.ID)
		}
		if merged {
			result.GroupsMerged++
		}
	}

	if s.audit != nil && result.GroupsMerged > 0 {
		_ = s.audit.Create(ctx, &models.AuditLog{
			EventType: models.AuditConsolidation,
			UserID:    &userID,
			Description: fmt.Sprintf("Consolidated %d duplicate groups: %d households removed, %d guests reassigned",
				result.GroupsMerged, result.HouseholdsRemoved, result.GuestsReassigned),
		})
	}
	return result, nil
}
