package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"gallery-backend/internal/config"
	"gallery-backend/internal/shared/apperror"
)

const providerCloudinary = "cloudinary"

var versionSegment = regexp.MustCompile(`^v\d+$`)

// CloudinaryStorage uploads images to the Cloudinary CDN.
// Cloudinary has no expiring signed delivery URLs, so Private is rejected.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
	limits Limits
}

func NewCloudinaryStorage(cfg config.CloudinaryConfig) (*CloudinaryStorage, error) {
	limits, err := NewLimits(cfg.Limits)
	if err != nil {
		return nil, fmt.Errorf("cloudinary limits: %w", err)
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStorage{cld: cld, folder: cfg.Folder, limits: limits}, nil
}

func (s *CloudinaryStorage) Name() string { return providerCloudinary }

func (s *CloudinaryStorage) Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error) {
	if err := s.limits.Check(file); err != nil {
		return nil, err
	}

	params := uploader.UploadParams{
		Folder:         joinFolder(s.folder, opts.Folder),
		ResourceType:   "auto",
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	}
	if opts.Filename != "" {
		params.PublicID = strings.TrimSuffix(opts.Filename, path.Ext(opts.Filename))
	}
	if len(opts.Metadata) > 0 {
		params.Context = api.CldAPIMap(opts.Metadata)
	}

	var source interface{}
	if file.Data != nil || file.Path == "" {
		source = bytes.NewReader(file.Data)
	} else {
		source = file.Path
	}

	res, err := s.cld.Upload.Upload(ctx, source, params)
	if err != nil {
		return nil, apperror.Storage(providerCloudinary, "upload", params.PublicID, err)
	}
	if res.Error.Message != "" {
		return nil, apperror.Storage(providerCloudinary, "upload", params.PublicID, errors.New(res.Error.Message))
	}

	return &UploadResult{
		RemoteID:  res.PublicID,
		URL:       res.URL,
		SecureURL: res.SecureURL,
		Width:     res.Width,
		Height:    res.Height,
		Format:    res.Format,
		Bytes:     int64(res.Bytes),
	}, nil
}

// Delete xóa asset, CDN cache được invalidate luôn
func (s *CloudinaryStorage) Delete(ctx context.Context, remoteID string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   remoteID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return apperror.Storage(providerCloudinary, "delete", remoteID, err)
	}
	if res.Error.Message != "" {
		return apperror.Storage(providerCloudinary, "delete", remoteID, errors.New(res.Error.Message))
	}
	return nil
}

// GenerateURL builds a delivery URL with the requested transform; it is a
// pure function of remoteID and opts
func (s *CloudinaryStorage) GenerateURL(_ context.Context, remoteID string, opts URLOptions) (string, error) {
	if opts.Private {
		return "", apperror.Storage(providerCloudinary, "generate url", remoteID, errors.New("signed expiring urls are not supported"))
	}

	img, err := s.cld.Image(remoteID)
	if err != nil {
		return "", apperror.Storage(providerCloudinary, "generate url", remoteID, err)
	}
	img.Transformation = cloudinaryTransformation(opts)

	out, err := img.String()
	if err != nil {
		return "", apperror.Storage(providerCloudinary, "generate url", remoteID, err)
	}
	return out, nil
}

// cloudinaryTransformation → "c_fill,h_500,w_500/q_auto,f_auto"
func cloudinaryTransformation(opts URLOptions) string {
	var resize []string
	if opts.Crop != "" {
		resize = append(resize, "c_"+opts.Crop)
	}
	if opts.Height > 0 {
		resize = append(resize, fmt.Sprintf("h_%d", opts.Height))
	}
	if opts.Width > 0 {
		resize = append(resize, fmt.Sprintf("w_%d", opts.Width))
	}

	quality := opts.Quality
	if quality == "" {
		quality = "auto:best"
	}
	delivery := "q_" + quality + ",f_auto"

	if len(resize) == 0 {
		return delivery
	}
	return strings.Join(resize, ",") + "/" + delivery
}

// ResolveID: .../<type>/upload/<transform>/v<version>/<public_id>.<ext> → <public_id>
func (s *CloudinaryStorage) ResolveID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", apperror.Storage(providerCloudinary, "resolve id", "", fmt.Errorf("invalid url %q", rawURL))
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	start := -1
	for i, seg := range segments {
		if seg == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(segments) {
		return "", apperror.Storage(providerCloudinary, "resolve id", "", fmt.Errorf("url %q is not a cloudinary delivery url", rawURL))
	}

	rest := segments[start:]
	versioned := false
	for i, seg := range rest {
		if versionSegment.MatchString(seg) {
			rest = rest[i+1:]
			versioned = true
			break
		}
	}
	for !versioned && len(rest) > 1 && isTransformationSegment(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", apperror.Storage(providerCloudinary, "resolve id", "", fmt.Errorf("url %q has no public id", rawURL))
	}

	id := strings.Join(rest, "/")
	return strings.TrimSuffix(id, path.Ext(id)), nil
}

var transformationParam = regexp.MustCompile(`^[a-z]{1,3}_[^/]+$`)

func isTransformationSegment(seg string) bool {
	for _, part := range strings.Split(seg, ",") {
		if !transformationParam.MatchString(part) {
			return false
		}
	}
	return true
}
