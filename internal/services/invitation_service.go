package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

var ErrInvalidCode = errors.New("invalid invitation code")

// InvitationService resolves human-entered invitation codes to households
type InvitationService struct {
	households HouseholdStore
	audit      AuditStore
}

func NewInvitationService(households HouseholdStore, audit AuditStore) *InvitationService {
	return &InvitationService{households: households, audit: audit}
}

// SanitizeCode canonicalizes a human-entered invitation code: trim, uppercase,
// strip everything outside [A-Z0-9]. Returns ErrInvalidCode when the result is
// not 6-8 characters long.
func SanitizeCode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) < 6 || len(code) > 8 {
		return "", ErrInvalidCode
	}
	return code, nil
}

// Resolve maps an invitation code to a household ID. Input failing the
// length/charset check is rejected before any lookup. A successful resolve
// records an invitation_used audit event.
func (s *InvitationService) Resolve(ctx context.Context, raw, clientIP string) (int, error) {
	code, err := SanitizeCode(raw)
	if err != nil {
		return 0, err
	}

	householdID, err := s.households.ResolveCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrHouseholdNotFound) {
			return 0, ErrInvalidCode
		}
		return 0, fmt.Errorf("resolve invitation code: %w", err)
	}

	if s.audit != nil {
		// Audit write is best effort
		_ = s.audit.Create(ctx, &models.AuditLog{
			EventType:   models.AuditInvitationUsed,
			HouseholdID: &householdID,
			Description: fmt.Sprintf("Invitation code %s resolved", code),
			ClientIP:    clientIP,
		})
	}

	return householdID, nil
}
