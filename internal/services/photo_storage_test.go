package services

import (
	"path/filepath"
	"testing"
)

func TestLocalPhotoStorageResolve(t *testing.T) {
	s := NewLocalPhotoStorage("data/photos", "https://example.com/photos")

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"", "data/photos", false},
		{"gallery/a.jpg", filepath.Join("data", "photos", "gallery", "a.jpg"), false},
		{"../secrets.txt", "", true},
		{"a/../../b.jpg", "", true},
	}
	for _, tt := range tests {
		got, err := s.resolve(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolve(%q) = %q, want error", tt.key, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolve(%q) failed: %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLocalPhotoStoragePublicURL(t *testing.T) {
	s := NewLocalPhotoStorage("data/photos", "https://example.com/photos/")
	if got := s.PublicURL("gallery/a.jpg"); got != "https://example.com/photos/gallery/a.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
}
