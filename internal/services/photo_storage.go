package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoObject describes one stored photo
type PhotoObject struct {
	Name    string    `json:"name"`
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	URL     string    `json:"url"`
}

// PhotoStorage abstracts where wedding photos live: local disk served by this
// process, or an S3-compatible bucket fronted by a CDN. Public URLs are
// issued by joining the configured base URL with the object key.
type PhotoStorage interface {
	List(ctx context.Context, prefix string) ([]PhotoObject, error)
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Name() string
}

// ---------------------------------------------------------------------------
// LocalPhotoStorage — photos on local disk under baseDir
// ---------------------------------------------------------------------------

type LocalPhotoStorage struct {
	baseDir       string
	publicBaseURL string
}

func NewLocalPhotoStorage(baseDir, publicBaseURL string) *LocalPhotoStorage {
	return &LocalPhotoStorage{baseDir: baseDir, publicBaseURL: strings.TrimSuffix(publicBaseURL, "/")}
}

func (s *LocalPhotoStorage) Name() string { return "local" }

// resolve validates a key and maps it to a filesystem path, rejecting
// traversal outside baseDir
func (s *LocalPhotoStorage) resolve(key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key: contains '..'")
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(key))
	// A bare prefix check would also admit siblings like baseDir+"-x"
	base := filepath.Clean(s.baseDir)
	if full != base && !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("key escapes storage directory")
	}
	return full, nil
}

func (s *LocalPhotoStorage) List(_ context.Context, prefix string) ([]PhotoObject, error) {
	dir, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read photo directory: %w", err)
	}

	var photos []PhotoObject
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		key := filepath.ToSlash(filepath.Join(prefix, entry.Name()))
		photos = append(photos, PhotoObject{
			Name:    entry.Name(),
			Key:     key,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			URL:     s.PublicURL(key),
		})
	}
	return photos, nil
}

func (s *LocalPhotoStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create photo directory: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, reader)
	return err
}

func (s *LocalPhotoStorage) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

func (s *LocalPhotoStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}

// BaseDir exposes the storage root so the router can serve it statically
func (s *LocalPhotoStorage) BaseDir() string { return s.baseDir }

// ---------------------------------------------------------------------------
// S3PhotoStorage — photos in an S3-compatible bucket (R2, MinIO, AWS S3)
// ---------------------------------------------------------------------------

type S3PhotoStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3PhotoStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket, region, publicBaseURL string) (*S3PhotoStorage, error) {
	if region == "" {
		region = "auto"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure S3 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // Required for MinIO and R2
	})

	return &S3PhotoStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *S3PhotoStorage) Name() string { return "s3" }

func (s *S3PhotoStorage) List(ctx context.Context, prefix string) ([]PhotoObject, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var photos []PhotoObject
	var continuationToken *string
	for {
		result, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("list photos: %w", err)
		}

		for _, obj := range result.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, prefix)
			if name == "" || strings.HasSuffix(name, "/") {
				continue
			}
			var modTime time.Time
			if obj.LastModified != nil {
				modTime = *obj.LastModified
			}
			photos = append(photos, PhotoObject{
				Name:    name,
				Key:     key,
				Size:    aws.ToInt64(obj.Size),
				ModTime: modTime,
				URL:     s.PublicURL(key),
			})
		}

		if result.IsTruncated == nil || !*result.IsTruncated {
			break
		}
		continuationToken = result.NextContinuationToken
	}
	return photos, nil
}

func (s *S3PhotoStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}
	return nil
}

func (s *S3PhotoStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (s *S3PhotoStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}
