package services

import (
	"context"
	"errors"
	"testing"

	"wedding-backend/internal/models"
)

func TestSanitizeCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ABC123", "ABC123", false},
		{"abc123", "ABC123", false},
		{"  ab-c 123  ", "ABC123", false},
		{"AB_C1.2!3", "ABC123", false},
		{"ABCD1234", "ABCD1234", false},
		{"ABC12", "", true},      // too short
		{"ABC123456", "", true},  // too long
		{"", "", true},           // empty
		{"!!!---", "", true},     // nothing left after stripping
		{"abc 12", "", true},     // strips down to 5 chars
	}
	for _, tt := range tests {
		got, err := SanitizeCode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCode) {
				t.Errorf("SanitizeCode(%q): expected ErrInvalidCode, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizeCode(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SanitizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveInvitationCode(t *testing.T) {
	store := newFakeStore()
	svc := NewInvitationService(fakeHouseholds{store}, fakeAudit{store})
	ctx := context.Background()

	h := &models.Household{Name: "Lee Household", InvitationCode: "ABC123"}
	store.Create(ctx, h)

	id, err := svc.Resolve(ctx, "  abc-123 ", "203.0.113.9")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != h.ID {
		t.Fatalf("resolved to household %d, want %d", id, h.ID)
	}

	// Success leaves an audit trail
	if len(store.audits) != 1 || store.audits[0].EventType != models.AuditInvitationUsed {
		t.Fatalf("expected one invitation_used audit event, got %+v", store.audits)
	}
	if store.audits[0].ClientIP != "203.0.113.9" {
		t.Errorf("audit client IP = %q", store.audits[0].ClientIP)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	store := newFakeStore()
	svc := NewInvitationService(fakeHouseholds{store}, nil)

	_, err := svc.Resolve(context.Background(), "ZZZZZZ", "")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestResolveMalformedCodeSkipsLookup(t *testing.T) {
	store := newFakeStore()
	svc := NewInvitationService(fakeHouseholds{store}, fakeAudit{store})

	_, err := svc.Resolve(context.Background(), "a!", "")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if len(store.audits) != 0 {
		t.Error("malformed input should not leave an audit event")
	}
}
