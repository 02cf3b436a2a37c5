// internal/domain/upload/service.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/config"
)

// ErrInvalidFile is returned for uploads that fail type or size checks
var ErrInvalidFile = errors.New("invalid upload")

// Service handles file upload business logic
type Service struct {
	storage    Storage
	maxSize    int64
	extensions map[string]bool
	log        logrus.FieldLogger
}

// NewService creates a new upload service
func NewService(storage Storage, cfg config.UploadConfig, log logrus.FieldLogger) *Service {
	exts := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, e := range cfg.AllowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Service{
		storage:    storage,
		maxSize:    cfg.MaxSize,
		extensions: exts,
		log:        log,
	}
}

// SaveImage validates and stores a game cover image. A nil header means no
// file was submitted and yields an empty reference.
func (s *Service) SaveImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil || header.Size == 0 {
		return "", nil
	}
	if err := s.validateImageFile(header); err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	ext := extension(header.Filename)
	name := s.generateUniqueFilename(ext)

	ref, err := s.storage.Save(ctx, name, s.getMimeType(header, ext), file)
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"original": header.Filename,
		"ref":      ref,
		"size":     header.Size,
	}).Info("image uploaded")
	return ref, nil
}

func (s *Service) validateImageFile(header *multipart.FileHeader) error {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidFile, s.maxSize)
	}
	ext := extension(header.Filename)
	if !s.extensions[ext] {
		return fmt.Errorf("%w: .%s files are not allowed", ErrInvalidFile, ext)
	}
	return nil
}

func (s *Service) generateUniqueFilename(ext string) string {
	return fmt.Sprintf("%s.%s", uuid.NewString(), ext)
}

func (s *Service) getMimeType(header *multipart.FileHeader, ext string) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
