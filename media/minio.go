package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mrk-foods/cardsysbackend/config"
)

// MinioUploader stores assets in an S3-compatible bucket and hands back the
// object's public URL.
type MinioUploader struct {
	client *minio.Client
	bucket string
	secure bool
}

// NewMinioUploader initializes the client and makes sure the bucket exists.
func NewMinioUploader(cfg config.MinioConfig) (*MinioUploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio endpoint and credentials must be configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioUploader{client: client, bucket: cfg.Bucket, secure: cfg.UseSSL}, nil
}

func (mu *MinioUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	assetUUID, err := uuid.NewRandom()
	if err != nil {
		return "", &UploadError{Reason: "failed to generate object key", Err: err}
	}
	key := folder + "/" + assetUUID.String() + extensionFor(data)

	_, err = mu.client.PutObject(ctx, mu.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(data)})
	if err != nil {
		return "", &UploadError{Reason: "remote service rejected upload", Err: err}
	}

	scheme := "http"
	if mu.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, mu.client.EndpointURL().Host, mu.bucket, key), nil
}

// Remove deletes the object behind a URL previously returned by Upload.
// URLs outside this bucket and objects already gone are ignored.
func (mu *MinioUploader) Remove(ctx context.Context, assetURL string) error {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return nil
	}
	key := strings.TrimPrefix(parsed.Path, "/"+mu.bucket+"/")
	if key == parsed.Path || key == "" {
		return nil
	}
	return mu.client.RemoveObject(ctx, mu.bucket, key, minio.RemoveObjectOptions{})
}
