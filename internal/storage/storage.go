package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"construtora/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	// ErrObjectExists is returned by Upload when the path is already taken.
	// Uploads never overwrite.
	ErrObjectExists = errors.New("object already exists")

	ErrUnrecognizedURL = errors.New("url does not point into bucket")
)

// BlobStore is the file side of a document: bytes live here, the row that
// describes them lives in Postgres.
type BlobStore interface {
	Upload(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket, path string) error
}

// New builds the blob store selected by config.StorageBackend.
func New(config *types.Config, awsConfig aws.Config) (BlobStore, error) {
	switch strings.ToLower(config.StorageBackend) {
	case "", "supabase":
		if config.SupabaseProjectID == "" || config.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("set SUPABASE_PROJECT_ID and SUPABASE_SERVICE_KEY")
		}
		return NewSupabaseStorage(config.SupabaseProjectID, config.SupabaseServiceKey), nil
	case "s3":
		client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if config.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(config.S3Endpoint)
				o.UsePathStyle = true
			}
		})
		return NewS3Storage(client, config.S3PublicBaseURL), nil
	case "minio":
		return NewMinioStorage(&MinioConfig{
			Endpoint:  config.MinioEndpoint,
			AccessKey: config.MinioAccessKey,
			SecretKey: config.MinioSecretKey,
			UseSSL:    config.MinioUseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}

// ObjectPath recovers the object path inside bucket from a public URL
// produced by any of the backends. All of them use path style URLs ending in
// /{bucket}/{path}.
func ObjectPath(publicURL, bucket string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	marker := "/" + bucket + "/"
	idx := strings.Index(u.Path, marker)
	if bucket == "" || idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedURL, publicURL)
	}

	path := u.Path[idx+len(marker):]
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedURL, publicURL)
	}

	return path, nil
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
