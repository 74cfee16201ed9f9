package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	appconfig "fileflow/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory bucket implementing s3API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// onlyReader hides any Seek method of the wrapped reader.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestS3Storage_SaveGetExistsDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := newS3Storage(fake, "bucket")

	key := NewKey(3)
	require.NoError(t, store.Save(ctx, key, onlyReader{strings.NewReader("payload")}))
	require.Contains(t, fake.objects, "bucket/"+key)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, exists)

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestS3Storage_GetMissing(t *testing.T) {
	store := newS3Storage(newFakeS3(), "bucket")

	_, err := store.Get(context.Background(), "users/1/missing")
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestS3Storage_SaveError(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = errors.New("access denied")
	store := newS3Storage(fake, "bucket")

	err := store.Save(context.Background(), "users/1/x", strings.NewReader("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "access denied")
}

func TestNewS3Storage_StaticCredentials(t *testing.T) {
	store, err := NewS3Storage(context.Background(), appconfig.S3Config{
		Bucket:       "fileflow",
		Region:       "us-east-1",
		Endpoint:     "http://127.0.0.1:9000",
		AccessKey:    "admin",
		SecretKey:    "secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.Equal(t, "fileflow", store.bucket)
	require.IsType(t, &s3.Client{}, store.client)
}
