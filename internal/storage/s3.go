package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mfenderov/aitranslate/pkg/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "aitranslate"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client archives finished translations and summaries in S3/MinIO.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	err = c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectName returns the key of the HTML object for a result: "<kind>/<document id>.html".
func ObjectName(kind models.ResultKind, documentID string) string {
	return path.Join(string(kind), documentID+".html")
}

func metadataName(kind models.ResultKind, documentID string) string {
	return path.Join(string(kind), documentID+".json")
}

// PutResult writes the result HTML and its JSON metadata.
func (c *Client) PutResult(ctx context.Context, result models.Result) error {
	objectName := ObjectName(result.Kind, result.DocumentID)
	reader := strings.NewReader(result.Content)

	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, reader, int64(len(result.Content)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to put result: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = c.minioClient.PutObject(ctx, c.bucket, metadataName(result.Kind, result.DocumentID), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put metadata: %w", err)
	}
	return nil
}

// GetResult reads a result back from its metadata object.
func (c *Client) GetResult(ctx context.Context, kind models.ResultKind, documentID string) (*models.Result, error) {
	object, err := c.minioClient.GetObject(ctx, c.bucket, metadataName(kind, documentID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// ListResults returns the document IDs archived for kind.
func (c *Client) ListResults(ctx context.Context, kind models.ResultKind) ([]string, error) {
	var ids []string

	objectCh := c.minioClient.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    string(kind) + "/",
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, ".html") {
			ids = append(ids, strings.TrimSuffix(path.Base(object.Key), ".html"))
		}
	}

	return ids, nil
}

// DeleteResult removes both objects for a result. Missing objects are not an error.
func (c *Client) DeleteResult(ctx context.Context, kind models.ResultKind, documentID string) error {
	for _, name := range []string{ObjectName(kind, documentID), metadataName(kind, documentID)} {
		if err := c.minioClient.RemoveObject(ctx, c.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}
	return nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
