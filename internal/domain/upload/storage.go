// internal/domain/upload/storage.go
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/your-org/gamestore/internal/config"
)

// Storage persists uploaded files and returns the public reference to them
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// NewStorage builds the storage backend selected by configuration
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.PublicPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// LocalStorage writes files into a directory served under a URL prefix
type LocalStorage struct {
	dir    string
	prefix string
}

// NewLocalStorage creates a local directory storage
func NewLocalStorage(dir, publicPrefix string) *LocalStorage {
	return &LocalStorage{dir: dir, prefix: strings.TrimRight(publicPrefix, "/")}
}

// Dir returns the directory files are written to
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes r to dir/name and returns prefix/name
func (s *LocalStorage) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	fullPath := filepath.Join(s.dir, name)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return s.prefix + "/" + name, nil
}

// S3Storage uploads files to an S3 bucket
type S3Storage struct {
	client  s3iface.S3API
	bucket  string
	region  string
	keyPath string
	cdnURL  string
}

// NewS3Storage creates an S3 storage from configuration. Static credentials
// are used when both keys are set, otherwise the default AWS chain applies.
func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3Storage(s3.New(sess), cfg), nil
}

func newS3Storage(client s3iface.S3API, cfg config.StorageConfig) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  cfg.S3Bucket,
		region:  cfg.S3Region,
		keyPath: "games",
		cdnURL:  strings.TrimRight(cfg.CDNBaseURL, "/"),
	}
}

// Save uploads r under games/name and returns its public URL
func (s *S3Storage) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	key := path.Join(s.keyPath, name)
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	if s.cdnURL != "" {
		return s.cdnURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
