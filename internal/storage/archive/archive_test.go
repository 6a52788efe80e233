package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peptide-tracker/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		data, _ := io.ReadAll(in.Body)
		f.body = string(data)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://minio.local/" + *in.Bucket + "/" + *in.Key}, nil
}

func newTestStore(p *fakePutter, ps *fakePresigner) *Store {
	return &Store{
		objects:    p,
		presigner:  ps,
		bucket:     "reports",
		presignTTL: 15 * time.Minute,
		now:        func() time.Time { return time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC) },
	}
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(context.Background(), config.Archive{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStorageKey(t *testing.T) {
	key := StorageKey("u1", "peptide-analytics.csv", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "reports/u1/2024/03/06/"))
	assert.True(t, strings.HasSuffix(key, "-peptide-analytics.csv"))
}

func TestPut(t *testing.T) {
	putter := &fakePutter{}
	store := newTestStore(putter, &fakePresigner{})

	obj, err := store.Put(context.Background(), "u1", "report.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, "reports", *putter.input.Bucket)
	assert.Equal(t, "text/plain", *putter.input.ContentType)
	assert.Equal(t, int64(5), *putter.input.ContentLength)
	assert.Equal(t, "hello", putter.body)
	assert.Equal(t, *putter.input.Key, obj.Key)
	assert.Equal(t, "https://minio.local/reports/"+obj.Key, obj.URL)
	assert.Equal(t, time.Date(2024, 3, 6, 10, 15, 0, 0, time.UTC), obj.ExpiresAt)
}

func TestPut_Errors(t *testing.T) {
	t.Run("upload fails", func(t *testing.T) {
		store := newTestStore(&fakePutter{err: errors.New("no bucket")}, &fakePresigner{})
		_, err := store.Put(context.Background(), "u1", "r.csv", "text/csv", nil)
		assert.ErrorContains(t, err, "archive.Put")
	})
	t.Run("presign fails", func(t *testing.T) {
		store := newTestStore(&fakePutter{}, &fakePresigner{err: errors.New("bad creds")})
		_, err := store.Put(context.Background(), "u1", "r.csv", "text/csv", nil)
		assert.ErrorContains(t, err, "bad creds")
	})
}

func TestPresignGet_RealSigner(t *testing.T) {
	store, err := New(context.Background(), config.Archive{
		S3Endpoint:  "http://localhost:9000",
		S3Region:    "us-east-1",
		S3AccessKey: "minio",
		S3SecretKey: "minio123",
		S3Bucket:    "reports",
		PresignTTL:  15 * time.Minute,
	})
	require.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "reports/u1/file.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/reports/reports/u1/file.csv?"))
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
