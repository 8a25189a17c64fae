package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gallery-backend/internal/config"
	"gallery-backend/internal/shared/apperror"
)

// Provider là storage port dùng chung cho S3, Cloudinary và Mega.
// Chỉ service layer gọi Provider, repository không bao giờ gọi.
type Provider interface {
	// Name identifies the adapter in logs, metrics and errors
	Name() string

	Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error)

	// Delete removes the object identified by remoteID. Whether deleting a
	// missing object succeeds is up to the provider.
	Delete(ctx context.Context, remoteID string) error

	// GenerateURL is deterministic unless opts.Private is set
	GenerateURL(ctx context.Context, remoteID string, opts URLOptions) (string, error)

	// ResolveID maps a delivery URL produced by this provider back to its remote id
	ResolveID(rawURL string) (string, error)
}

// File is either in-memory bytes or a path on the local filesystem.
type File struct {
	Name        string
	Data        []byte
	Path        string
	ContentType string
}

// Size returns the byte size of the file
func (f File) Size() (int64, error) {
	if f.Data != nil || f.Path == "" {
		return int64(len(f.Data)), nil
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Bytes loads the content, reading Path when Data is empty
func (f File) Bytes() ([]byte, error) {
	if f.Data != nil || f.Path == "" {
		return f.Data, nil
	}
	return os.ReadFile(f.Path)
}

// Extension returns the lowercase extension without the dot, from Name or Path
func (f File) Extension() string {
	name := f.Name
	if name == "" {
		name = f.Path
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Kind trả "image", "video" hoặc "audio" theo ContentType, "" nếu khác
func (f File) Kind() string {
	kind, _, _ := strings.Cut(f.ContentType, "/")
	switch kind {
	case "image", "video", "audio":
		return kind
	}
	return ""
}

type UploadOptions struct {
	Folder   string
	Filename string
	Metadata map[string]string
}

type UploadResult struct {
	RemoteID  string `json:"remoteId"`
	URL       string `json:"url"`
	SecureURL string `json:"secureUrl"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

// URLOptions mô tả transform khi sinh delivery URL
type URLOptions struct {
	Width   int
	Height  int
	Crop    string // fill, fit, limit, scale, thumb
	Quality string // auto, auto:best, 80...
	Private bool
	Expiry  time.Duration // chỉ dùng khi Private, 0 = default của adapter
}

// Limits is the pre-upload constraint set of one adapter
type Limits struct {
	allowed map[string]struct{}
	maxSize int64
}

// NewLimits validates configured limits. A maximum above the hard
// 100MB ceiling is a configuration error.
func NewLimits(cfg config.UploadLimits) (Limits, error) {
	if cfg.MaxFileSizeMB <= 0 || cfg.MaxFileSizeMB > config.MaxUploadSizeMB {
		return Limits{}, fmt.Errorf("max file size must be between 1 and %dMB, got %d", config.MaxUploadSizeMB, cfg.MaxFileSizeMB)
	}
	if len(cfg.AllowedFormats) == 0 {
		return Limits{}, fmt.Errorf("allowed formats must not be empty")
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedFormats))
	for _, f := range cfg.AllowedFormats {
		allowed[strings.ToLower(strings.TrimPrefix(f, "."))] = struct{}{}
	}
	return Limits{allowed: allowed, maxSize: int64(cfg.MaxFileSizeMB) << 20}, nil
}

// Check enforces the extension allow-list and the size maximum
func (l Limits) Check(f File) error {
	ext := f.Extension()
	if _, ok := l.allowed[ext]; !ok {
		return apperror.Validation("file rejected", apperror.FieldError{
			Field:   "file",
			Message: fmt.Sprintf("format %q is not allowed", ext),
		})
	}
	size, err := f.Size()
	if err != nil {
		return apperror.Validation("file rejected", apperror.FieldError{Field: "file", Message: "file is not readable"}).WithCause(err)
	}
	if size > l.maxSize {
		return apperror.Validation("file rejected", apperror.FieldError{
			Field:   "file",
			Message: fmt.Sprintf("file size %d exceeds maximum of %dMB", size, l.maxSize>>20),
		})
	}
	return nil
}

// objectName builds "<name>.<ext>" from the requested filename or a generated one
func objectName(f File, opts UploadOptions, generated string) string {
	base := opts.Filename
	if base == "" {
		base = generated
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if ext := f.Extension(); ext != "" {
		return base + "." + ext
	}
	return base
}

func joinFolder(parts ...string) string {
	var out []string
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}
