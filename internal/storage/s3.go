package storage

import (
	"context"
	"errors"
	"io"

	"project-tracker-api/internal/client"
)

// S3Store keeps files in a bucket. Stored paths are object keys.
type S3Store struct {
	client client.S3ClientInterface
}

// NewS3Store wraps an S3 client
func NewS3Store(c client.S3ClientInterface) *S3Store {
	return &S3Store{client: c}
}

// Validate checks size and type of an upload
func (s *S3Store) Validate(u *Upload) error {
	return Validate(u)
}

// Store uploads the file under key
func (s *S3Store) Store(ctx context.Context, u *Upload, key string) (string, error) {
	src, err := u.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := s.client.UploadFile(ctx, key, src, u.ContentType); err != nil {
		return "", err
	}
	return key, nil
}

// Open streams the object
func (s *S3Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	body, err := s.client.DownloadFile(ctx, path)
	if errors.Is(err, client.ErrObjectNotFound) {
		return nil, ErrFileUnavailable
	}
	return body, err
}

// Delete removes the object; S3 treats missing keys as success
func (s *S3Store) Delete(ctx context.Context, path string) error {
	return s.client.DeleteFile(ctx, path)
}
