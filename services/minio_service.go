package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioImageStore keeps pictures in a MinIO bucket, used for local development
type MinioImageStore struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// NewMinioImageStore connects to endpoint and makes sure bucket exists
func NewMinioImageStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, log *zap.Logger) (*MinioImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make bucket %s: %w", bucket, err)
		}
		log.Debug("minio bucket already exists", zap.String("bucket", bucket))
	}

	return &MinioImageStore{client: client, bucket: bucket, log: log}, nil
}

func (m *MinioImageStore) PutImage(ctx context.Context, key, contentType string, body []byte) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, m.bucket, err)
	}

	m.log.Debug("picture uploaded",
		zap.String("bucket", info.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size))
	return fmt.Sprintf("%s/%s/%s", m.client.EndpointURL().String(), m.bucket, key), nil
}
