package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gallery-backend/internal/config"
	"gallery-backend/internal/shared/apperror"
)

const (
	providerS3 = "s3"

	// S3 SigV4 không cho presign quá 7 ngày
	maxPresignExpiry = 7 * 24 * time.Hour
)

// S3Storage handles uploads to any S3-compatible object store (AWS S3, MinIO)
type S3Storage struct {
	client        *minio.Client
	bucket        string
	region        string
	endpoint      string
	useSSL        bool
	publicBase    *url.URL
	defaultFolder string
	signedExpiry  time.Duration
	limits        Limits
	images        *ImageProcessor
}

// NewS3Storage khởi tạo client, không gọi network.
// Gọi EnsureBucket khi khởi động để tạo bucket nếu chưa có.
func NewS3Storage(cfg config.S3Config, images *ImageProcessor) (*S3Storage, error) {
	limits, err := NewLimits(cfg.Limits)
	if err != nil {
		return nil, fmt.Errorf("s3 limits: %w", err)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	var base *url.URL
	if cfg.PublicBaseURL != "" {
		base, err = url.Parse(strings.TrimSuffix(cfg.PublicBaseURL, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid S3_PUBLIC_BASE_URL: %w", err)
		}
	}

	expiry := cfg.SignedURLExpiration
	if expiry <= 0 {
		expiry = time.Hour
	}

	if images == nil {
		images = NewImageProcessor(0)
	}

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
		useSSL:        cfg.UseSSL,
		publicBase:    base,
		defaultFolder: cfg.DefaultFolder,
		signedExpiry:  expiry,
		limits:        limits,
		images:        images,
	}, nil
}

// EnsureBucket kiểm tra bucket có tồn tại không, nếu không thì tạo mới
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *S3Storage) Name() string { return providerS3 }

// Upload uploads a file, key = <defaultFolder>/<folder>/<timestamp>-<rand>.<ext>
func (s *S3Storage) Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error) {
	if err := s.limits.Check(file); err != nil {
		return nil, err
	}

	data, err := file.Bytes()
	if err != nil {
		return nil, apperror.Storage(providerS3, "upload", "", err)
	}

	data, info, _, err := s.images.Fit(data)
	if err != nil {
		return nil, apperror.Storage(providerS3, "upload", "", err)
	}

	generated := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	key := joinFolder(s.defaultFolder, opts.Folder, objectName(file, opts, generated))

	uploaded, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  file.ContentType,
			UserMetadata: opts.Metadata,
		},
	)
	if err != nil {
		return nil, apperror.Storage(providerS3, "upload", key, err)
	}

	publicURL := s.publicURL(key)
	return &UploadResult{
		RemoteID:  key,
		URL:       publicURL,
		SecureURL: publicURL,
		Width:     info.Width,
		Height:    info.Height,
		Format:    file.Extension(),
		Bytes:     uploaded.Size,
	}, nil
}

// Delete xóa một object khỏi bucket
func (s *S3Storage) Delete(ctx context.Context, remoteID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, remoteID, minio.RemoveObjectOptions{}); err != nil {
		return apperror.Storage(providerS3, "delete", remoteID, err)
	}
	return nil
}

// GenerateURL trả public URL cố định, hoặc presigned URL khi opts.Private.
// S3 không có image transform nên Width/Height/Crop/Quality bị bỏ qua.
func (s *S3Storage) GenerateURL(ctx context.Context, remoteID string, opts URLOptions) (string, error) {
	if !opts.Private {
		return s.publicURL(remoteID), nil
	}

	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = s.signedExpiry
	}
	if expiry > maxPresignExpiry {
		return "", apperror.Storage(providerS3, "generate url", remoteID, fmt.Errorf("expiry %s exceeds %s", expiry, maxPresignExpiry))
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, remoteID, expiry, nil)
	if err != nil {
		return "", apperror.Storage(providerS3, "generate url", remoteID, err)
	}
	return signed.String(), nil
}

// ResolveID lấy object key từ URL (public hoặc presigned)
func (s *S3Storage) ResolveID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "", apperror.Storage(providerS3, "resolve id", "", fmt.Errorf("invalid url %q", rawURL))
	}

	key := strings.TrimPrefix(u.Path, "/")
	switch {
	case s.publicBase != nil:
		key = strings.TrimPrefix(key, strings.Trim(s.publicBase.Path, "/"))
	case !s.isAWS():
		key = strings.TrimPrefix(key, s.bucket+"/")
	}
	key = strings.TrimPrefix(key, "/")

	if key == "" {
		return "", apperror.Storage(providerS3, "resolve id", "", fmt.Errorf("url %q has no object key", rawURL))
	}
	return key, nil
}

func (s *S3Storage) isAWS() bool {
	return s.endpoint == "" || strings.HasSuffix(s.endpoint, "amazonaws.com")
}

// publicURL format:
//   - AWS:   https://<bucket>.s3.<region>.amazonaws.com/<key>
//   - MinIO: http(s)://<endpoint>/<bucket>/<key>
//   - base:  <S3_PUBLIC_BASE_URL>/<key>
func (s *S3Storage) publicURL(key string) string {
	escaped := escapeKey(key)
	switch {
	case s.publicBase != nil:
		return s.publicBase.String() + "/" + escaped
	case s.isAWS():
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
	default:
		scheme := "http"
		if s.useSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, escaped)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
