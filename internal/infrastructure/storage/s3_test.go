package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-backend/internal/config"
	"gallery-backend/internal/shared/apperror"
)

func newTestS3(t *testing.T, mutate func(*config.S3Config)) *S3Storage {
	t.Helper()
	cfg := config.S3Config{
		Endpoint:  "localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "gallery",
		Limits:    config.UploadLimits{AllowedFormats: []string{"jpg"}, MaxFileSizeMB: 5},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewS3Storage(cfg, nil)
	require.NoError(t, err)
	return s
}

func TestS3_GenerateURL_PublicIsDeterministic(t *testing.T) {
	s := newTestS3(t, nil)
	ctx := context.Background()

	first, err := s.GenerateURL(ctx, "uploads/girls/1-ab.jpg", URLOptions{Width: 100})
	require.NoError(t, err)
	second, err := s.GenerateURL(ctx, "uploads/girls/1-ab.jpg", URLOptions{})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/gallery/uploads/girls/1-ab.jpg", first)
	assert.Equal(t, first, second)
}

func TestS3_PublicURLFormats(t *testing.T) {
	aws := newTestS3(t, func(c *config.S3Config) {
		c.Endpoint = "s3.amazonaws.com"
		c.Region = "ap-southeast-1"
		c.UseSSL = true
	})
	assert.Equal(t, "https://gallery.s3.ap-southeast-1.amazonaws.com/a/b%20c.jpg", aws.publicURL("a/b c.jpg"))

	cdn := newTestS3(t, func(c *config.S3Config) { c.PublicBaseURL = "https://cdn.example.com/media/" })
	assert.Equal(t, "https://cdn.example.com/media/a/b.jpg", cdn.publicURL("a/b.jpg"))
}

func TestS3_ResolveIDRoundTrip(t *testing.T) {
	cases := map[string]func(*config.S3Config){
		"minio": nil,
		"aws":   func(c *config.S3Config) { c.Endpoint = "s3.amazonaws.com"; c.UseSSL = true },
		"cdn":   func(c *config.S3Config) { c.PublicBaseURL = "https://cdn.example.com/media" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestS3(t, mutate)
			key := "uploads/posts/1700000000000-deadbeef.jpg"

			u, err := s.GenerateURL(context.Background(), key, URLOptions{})
			require.NoError(t, err)

			id, err := s.ResolveID(u)
			require.NoError(t, err)
			assert.Equal(t, key, id)
		})
	}
}

func TestS3_ResolveIDRejectsEmpty(t *testing.T) {
	s := newTestS3(t, nil)

	_, err := s.ResolveID("http://localhost:9000/gallery/")
	assert.True(t, apperror.IsKind(err, apperror.KindStorageOperationFailed))
}

func TestS3_GenerateURL_Private(t *testing.T) {
	s := newTestS3(t, nil)
	ctx := context.Background()

	signed, err := s.GenerateURL(ctx, "uploads/a.jpg", URLOptions{Private: true, Expiry: 10 * time.Minute})
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	_, err = s.GenerateURL(ctx, "uploads/a.jpg", URLOptions{Private: true, Expiry: 8 * 24 * time.Hour})
	assert.True(t, apperror.IsKind(err, apperror.KindStorageOperationFailed))
}

func TestS3_UploadRejectedBeforeNetwork(t *testing.T) {
	s := newTestS3(t, nil)

	_, err := s.Upload(context.Background(), File{Name: "a.gif", Data: []byte("x")}, UploadOptions{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
