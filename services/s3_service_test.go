package services

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3ImageStorePutImage(t *testing.T) {
	client := &fakeS3{}
	store := &S3ImageStore{Client: client, Bucket: "coolbooks", Region: "eu-west-1"}

	url, err := store.PutImage(context.Background(), "pictures/abc.png", "image/png", []byte("png"))
	require.NoError(t, err)
	require.Equal(t, "https://coolbooks.s3.eu-west-1.amazonaws.com/pictures/abc.png", url)

	require.Equal(t, "coolbooks", aws.ToString(client.input.Bucket))
	require.Equal(t, "pictures/abc.png", aws.ToString(client.input.Key))
	require.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	require.Equal(t, s3types.ObjectCannedACLPublicRead, client.input.ACL)
	require.Equal(t, []byte("png"), client.body)
}

func TestS3ImageStoreError(t *testing.T) {
	store := &S3ImageStore{Client: &fakeS3{err: errBoom}, Bucket: "coolbooks", Region: "eu-west-1"}

	_, err := store.PutImage(context.Background(), "pictures/abc.png", "image/png", nil)
	require.ErrorIs(t, err, errBoom)
}
