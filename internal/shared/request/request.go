// Package request chứa các helper đọc input từ gin.Context dùng chung cho các handler.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/apperror"
)

// FormDataField là field multipart chứa JSON payload đi kèm file
const FormDataField = "data"

// BindBody decodes the JSON payload into dst.
//   - application/json: request body
//   - multipart/form-data: JSON string in the "data" field
//
// Missing payload leaves dst untouched (empty partial update).
func BindBody(c *gin.Context, dst interface{}) error {
	if isMultipart(c) {
		raw := strings.TrimSpace(c.PostForm(FormDataField))
		if raw == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return invalidBody(FormDataField, err)
		}
		return nil
	}

	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalidBody("body", err)
	}
	return nil
}

// FormFiles đọc tất cả file của field multipart thành storage.File.
// Content type được sniff từ bytes, không tin header của client.
func FormFiles(c *gin.Context, field string) ([]storage.File, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, invalidBody(field, err)
	}

	headers := form.File[field]
	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, invalidBody(field, err)
		}
		files = append(files, f)
	}
	return files, nil
}

// FormFile trả file đầu tiên của field, nil nếu không có
func FormFile(c *gin.Context, field string) (*storage.File, error) {
	files, err := FormFiles(c, field)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func readFile(fh *multipart.FileHeader) (storage.File, error) {
	src, err := fh.Open()
	if err != nil {
		return storage.File{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return storage.File{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	detected := mimetype.Detect(data)
	name := filepath.Base(fh.Filename)
	if filepath.Ext(name) == "" {
		name += detected.Extension()
	}

	contentType := detected.String()
	if detected.Is("application/octet-stream") {
		if declared := fh.Header.Get("Content-Type"); declared != "" {
			contentType = declared
		}
	}

	return storage.File{Name: name, Data: data, ContentType: contentType}, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

func invalidBody(field string, err error) error {
	return apperror.Validation("invalid request body", apperror.FieldError{
		Field:   field,
		Message: err.Error(),
	}).WithCause(err)
}
