package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	headErr error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = params
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Storage_SavePublicRead(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Storage{client: fake, bucket: "avatars", region: "eu-central-1", publicRead: true}

	require.NoError(t, s.Save(context.Background(), "avatars/user_1.jpg", strings.NewReader("jpg"), 3, "image/jpeg"))

	require.NotNil(t, fake.put)
	assert.Equal(t, "avatars/user_1.jpg", aws.ToString(fake.put.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.put.ContentType))
	assert.Equal(t, types.ObjectCannedACLPublicRead, fake.put.ACL)
	assert.Equal(t, int64(3), aws.ToInt64(fake.put.ContentLength))
}

func TestS3Storage_ExistsNotFound(t *testing.T) {
	s := &S3Storage{client: &fakeS3{headErr: &types.NotFound{}}, bucket: "b"}

	ok, err := s.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Storage_GetURL(t *testing.T) {
	ctx := context.Background()

	url, _ := (&S3Storage{bucket: "b", region: "us-east-1"}).GetURL(ctx, "k.png")
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com/k.png", url)

	url, _ = (&S3Storage{bucket: "b", endpoint: "https://r2.test"}).GetURL(ctx, "k.png")
	assert.Equal(t, "https://r2.test/b/k.png", url)

	url, _ = (&S3Storage{bucket: "b", baseURL: "https://cdn.test"}).GetURL(ctx, "k.png")
	assert.Equal(t, "https://cdn.test/k.png", url)
}
