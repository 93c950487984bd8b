package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var ErrUnsupportedPhotoType = errors.New("unsupported photo file type")

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// PhotoService manages gallery photos on the configured storage backend
type PhotoService struct {
	storage PhotoStorage
}

func NewPhotoService(storage PhotoStorage) *PhotoService {
	return &PhotoService{storage: storage}
}

// Upload stores a photo under gallery/ with a timestamped key and returns its
// public URL
func (s *PhotoService) Upload(ctx context.Context, filename string, reader io.Reader, size int64) (*PhotoObject, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !photoExtensions[ext] {
		return nil, ErrUnsupportedPhotoType
	}

	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	key := fmt.Sprintf("gallery/%d-%s%s", time.Now().UnixNano(), sanitizeFilename(base), ext)

	if err := s.storage.Upload(ctx, key, reader, size); err != nil {
		return nil, err
	}
	return &PhotoObject{
		Name: path.Base(key),
		Key:  key,
		Size: size,
		URL:  s.storage.PublicURL(key),
	}, nil
}

// List returns all gallery photos
func (s *PhotoService) List(ctx context.Context) ([]PhotoObject, error) {
	return s.storage.List(ctx, "gallery")
}

// Delete removes a photo by key
func (s *PhotoService) Delete(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, "gallery/") {
		return fmt.Errorf("invalid photo key %q", key)
	}
	return s.storage.Delete(ctx, key)
}

// sanitizeFilename keeps filenames URL-safe
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
