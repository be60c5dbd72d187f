package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ImageStore stores listing pictures and returns their public URL
type ImageStore interface {
	PutImage(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// S3API is the subset of *s3.Client used by S3ImageStore
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads pictures as public-read objects
type S3ImageStore struct {
	Client S3API
	Bucket string
	Region string
}

func NewS3ImageStore(cfg aws.Config, bucket string) *S3ImageStore {
	return &S3ImageStore{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Region: cfg.Region,
	}
}

func (s *S3ImageStore) PutImage(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s in bucket %s: %w", key, s.Bucket, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}
