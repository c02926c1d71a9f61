package client

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker-api/internal/config"
)

func TestNewS3Client_Validation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.S3Config
		errContains string
	}{
		{"missing bucket", config.S3Config{Region: "ap-northeast-2"}, "bucket is required"},
		{"missing region", config.S3Config{Bucket: "b"}, "region is required"},
		{"minio without credentials", config.S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000"}, "access key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewS3Client(&tt.cfg)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestGetFileURL(t *testing.T) {
	aws, err := NewS3Client(&config.S3Config{
		Bucket:    "tracker-files",
		Region:    "ap-northeast-2",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"https://tracker-files.s3.ap-northeast-2.amazonaws.com/tasks/1/a.pdf",
		aws.GetFileURL("tasks/1/a.pdf"))

	minio, err := NewS3Client(&config.S3Config{
		Bucket:    "tracker-files",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000/",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/tracker-files/tasks/1/a.pdf", minio.GetFileURL("tasks/1/a.pdf"))
}

func TestMockS3Client_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMockS3Client()

	url, err := m.UploadFile(ctx, "bugs/3/log.txt", bytes.NewBufferString("trace"), "text/plain")
	require.NoError(t, err)
	assert.Contains(t, url, "bugs/3/log.txt")
	assert.True(t, m.Has("bugs/3/log.txt"))

	body, err := m.DownloadFile(ctx, "bugs/3/log.txt")
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	assert.Equal(t, "trace", string(data))

	require.NoError(t, m.DeleteFile(ctx, "bugs/3/log.txt"))
	require.NoError(t, m.DeleteFile(ctx, "bugs/3/log.txt"))

	_, err = m.DownloadFile(ctx, "bugs/3/log.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
