package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	bucketExists bool
	madeBucket   string
	objects      map[string]string
}

func (f *fakeMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.madeBucket = bucketName
	return nil
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[objectName] = string(data)
	return minio.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	delete(f.objects, objectName)
	return nil
}

func (f *fakeMinio) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if _, ok := f.objects[objectName]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return minio.ObjectInfo{Key: objectName}, nil
}

func TestMinioStorage_EnsureBucketCreatesMissing(t *testing.T) {
	fake := &fakeMinio{objects: map[string]string{}}
	s := &MinioStorage{client: fake, bucket: "avatars"}

	require.NoError(t, s.ensureBucketExists(context.Background(), ""))
	assert.Equal(t, "avatars", fake.madeBucket)
}

func TestMinioStorage_SaveExistsDelete(t *testing.T) {
	fake := &fakeMinio{bucketExists: true, objects: map[string]string{}}
	s := &MinioStorage{client: fake, bucket: "avatars", baseURL: "http://minio:9000/avatars"}
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "avatars/user_1.png", strings.NewReader("png"), 3, "image/png"))
	ok, err := s.Exists(ctx, "avatars/user_1.png")
	require.NoError(t, err)
	assert.True(t, ok)

	url, _ := s.GetURL(ctx, "avatars/user_1.png")
	assert.Equal(t, "http://minio:9000/avatars/avatars/user_1.png", url)

	require.NoError(t, s.Delete(ctx, "avatars/user_1.png"))
	ok, err = s.Exists(ctx, "avatars/user_1.png")
	require.NoError(t, err)
	assert.False(t, ok)
}
