// Package storage validates uploaded files and keeps their bytes on disk or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"project-tracker-api/internal/domain"
)

// MaxFileSize is the largest accepted attachment (10 MiB)
const MaxFileSize int64 = 10 << 20

var allowedTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain":                   true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the 10 MiB limit")
	ErrTypeNotAllowed  = errors.New("file type is not allowed")
	ErrInvalidPath     = errors.New("invalid storage path")
	ErrFileUnavailable = errors.New("stored file not found")
)

// Upload is a file received from a client, not yet stored
type Upload struct {
	FileName    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Store persists attachment bytes. Delete is idempotent on missing files.
type Store interface {
	Validate(u *Upload) error
	Store(ctx context.Context, u *Upload, key string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// Validate checks size and MIME type. When the declared type is missing or generic,
// the content is sniffed and u.ContentType is replaced with the detected type.
func Validate(u *Upload) error {
	if u == nil || u.Size <= 0 {
		return ErrEmptyFile
	}
	if u.Size > MaxFileSize {
		return ErrFileTooLarge
	}

	contentType := normalizeType(u.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		detected, err := sniff(u)
		if err != nil {
			return err
		}
		contentType = detected
	}
	if !allowedTypes[contentType] {
		return fmt.Errorf("%w: %s", ErrTypeNotAllowed, contentType)
	}
	u.ContentType = contentType
	return nil
}

// ValidationMessage renders a validation failure the way users see it
func ValidationMessage(u *Upload, err error) string {
	name := ""
	if u != nil {
		name = u.FileName
	}
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File %s exceeds the maximum size of 10MB", name)
	case errors.Is(err, ErrTypeNotAllowed):
		return fmt.Sprintf("File %s has an unsupported type", name)
	case errors.Is(err, ErrEmptyFile):
		return fmt.Sprintf("File %s is empty", name)
	}
	return fmt.Sprintf("File %s could not be read", name)
}

func normalizeType(ct string) string {
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

func sniff(u *Upload) (string, error) {
	if u.Open == nil {
		return "", ErrEmptyFile
	}
	r, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer r.Close()

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	return normalizeType(mt.String()), nil
}

// NewKey builds a unique storage key such as tasks/12/2024/05/<uuid>.pdf
func NewKey(ref domain.EntityRef, originalName string) string {
	now := time.Now().UTC()
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%ss/%d/%s/%s/%s%s",
		ref.Type, ref.ID, now.Format("2006"), now.Format("01"), uuid.NewString(), ext)
}
