package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	appConfig "project-tracker-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ClientInterface defines the interface for S3 operations
type S3ClientInterface interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// ErrObjectNotFound is returned by DownloadFile when the key does not exist
var ErrObjectNotFound = errors.New("s3 object not found")

// CallRecorder receives timing for outbound S3 and redis calls
type CallRecorder interface {
	RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error)
}

// S3Client wraps AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string // set when talking to MinIO
	recorder CallRecorder
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO requires explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for MinIO endpoint")
		}
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		// Default credential chain (IAM role, ~/.aws/credentials)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:   s3Client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// WithRecorder attaches a metrics recorder to the client
func (c *S3Client) WithRecorder(r CallRecorder) *S3Client {
	c.recorder = r
	return c
}

func (c *S3Client) record(method string, start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	status := 200
	if err != nil {
		status = 500
	}
	c.recorder.RecordExternalAPICall("s3://"+c.bucket, method, status, time.Since(start), err)
}

// UploadFile uploads a file to S3 and returns its URL
func (c *S3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	start := time.Now()
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	c.record("PUT", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return c.GetFileURL(key), nil
}

// DownloadFile opens an object for reading. The caller closes the body.
func (c *S3Client) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	c.record("GET", start, err)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download file from S3: %w", err)
	}
	return out.Body, nil
}

// DeleteFile deletes a file from S3. Deleting a missing key succeeds.
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	c.record("DELETE", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a key
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
