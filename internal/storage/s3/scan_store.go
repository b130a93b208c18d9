// Package s3 stores scanned crew documents in S3 or an S3-compatible endpoint.
package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"seacrew/internal/config"
	"seacrew/internal/port"
)

// DefaultMaxScanBytes caps how much of a stored scan is read back.
const DefaultMaxScanBytes = 25 << 20

// ScanStore implements port.ObjectStorage for scan images.
type ScanStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
	maxBytes  int64
}

// NewScanStore creates an S3-backed ScanStore. A custom endpoint switches to
// path-style addressing for MinIO and LocalStack.
func NewScanStore(ctx context.Context, cfg *config.S3Config) (*ScanStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &ScanStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
		maxBytes:  DefaultMaxScanBytes,
	}, nil
}

// Upload archives a scan. Large bodies are sent as a multipart upload.
func (s *ScanStore) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("ScanStore.Upload %s: %w", input.Key, err)
	}
	return &port.UploadOutput{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

// Download reads a stored scan, refusing objects larger than the store's limit.
func (s *ScanStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("ScanStore.Download %s: %w", key, err)
	}
	defer func() { _ = result.Body.Close() }()

	if result.ContentLength != nil && *result.ContentLength > s.maxBytes {
		return nil, fmt.Errorf("ScanStore.Download %s: object is %d bytes, limit %d", key, *result.ContentLength, s.maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(result.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ScanStore.Download %s read: %w", key, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("ScanStore.Download %s: object exceeds %d bytes", key, s.maxBytes)
	}
	return data, nil
}

// GetPresignedURL returns a time-limited GET link to a scan for the review UI.
func (s *ScanStore) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	result, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("ScanStore.GetPresignedURL %s: %w", key, err)
	}
	return result.URL, nil
}

// WithMaxScanBytes overrides the download size limit.
func (s *ScanStore) WithMaxScanBytes(n int64) *ScanStore {
	s.maxBytes = n
	return s
}
