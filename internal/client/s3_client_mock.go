package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MockS3Client implements S3ClientInterface in memory for tests
type MockS3Client struct {
	Bucket string
	Region string

	mu      sync.Mutex
	Objects map[string][]byte

	// Optional function overrides for custom test behavior
	UploadFileFunc   func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DownloadFileFunc func(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFileFunc   func(ctx context.Context, key string) error
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		Region:  "ap-northeast-2",
		Objects: make(map[string][]byte),
	}
}

// UploadFile stores the body under key
func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.Objects[key] = data
	m.mu.Unlock()
	return m.GetFileURL(key), nil
}

// DownloadFile returns the stored body
func (m *MockS3Client) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.DownloadFileFunc != nil {
		return m.DownloadFileFunc(ctx, key)
	}
	m.mu.Lock()
	data, ok := m.Objects[key]
	m.mu.Unlock()
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// DeleteFile removes key; missing keys are ignored like S3 does
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	m.mu.Lock()
	delete(m.Objects, key)
	m.mu.Unlock()
	return nil
}

// GetFileURL returns a fake S3 URL
func (m *MockS3Client) GetFileURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Has reports whether key is stored
func (m *MockS3Client) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}
