package storage

import (
	"context"
	"time"

	"gallery-backend/pkg/logger"
)

// Observer nhận kết quả của mỗi storage operation (metrics hook)
type Observer func(provider, operation string, took time.Duration, err error)

type instrumented struct {
	Provider
	observe Observer
}

// Instrument bọc provider để log + đo thời gian mỗi lần Upload/Delete/GenerateURL
func Instrument(p Provider, observe Observer) Provider {
	if observe == nil {
		observe = func(string, string, time.Duration, error) {}
	}
	return &instrumented{Provider: p, observe: observe}
}

func (i *instrumented) Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error) {
	start := time.Now()
	res, err := i.Provider.Upload(ctx, file, opts)
	i.done("upload", start, err)
	if err == nil {
		logger.Info("File uploaded", map[string]interface{}{
			"provider":  i.Name(),
			"remote_id": res.RemoteID,
			"bytes":     res.Bytes,
		})
	}
	return res, err
}

func (i *instrumented) Delete(ctx context.Context, remoteID string) error {
	start := time.Now()
	err := i.Provider.Delete(ctx, remoteID)
	i.done("delete", start, err)
	if err == nil {
		logger.Info("File deleted", map[string]interface{}{
			"provider":  i.Name(),
			"remote_id": remoteID,
		})
	}
	return err
}

func (i *instrumented) GenerateURL(ctx context.Context, remoteID string, opts URLOptions) (string, error) {
	start := time.Now()
	out, err := i.Provider.GenerateURL(ctx, remoteID, opts)
	i.done("generate_url", start, err)
	return out, err
}

func (i *instrumented) done(op string, start time.Time, err error) {
	took := time.Since(start)
	i.observe(i.Name(), op, took, err)
	if err != nil {
		logger.ErrorWithFields("Storage operation failed", err, map[string]interface{}{
			"provider":  i.Name(),
			"operation": op,
			"took_ms":   took.Milliseconds(),
		})
	}
}
