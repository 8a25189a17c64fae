package storage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ImageInfo is what we learn from an image header
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

// ImageProcessor đọc kích thước ảnh và thu nhỏ ảnh quá lớn trước khi upload
type ImageProcessor struct {
	MaxDimension int // 0 = không resize
}

func NewImageProcessor(maxDimension int) *ImageProcessor {
	return &ImageProcessor{MaxDimension: maxDimension}
}

// Inspect returns false when data is not a decodable image (video, audio...)
func (p *ImageProcessor) Inspect(data []byte) (ImageInfo, bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, false
	}
	return ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, true
}

// Fit thu nhỏ ảnh vượt MaxDimension (giữ tỉ lệ, encode lại cùng format).
// Non-images and images already within bounds are returned unchanged.
func (p *ImageProcessor) Fit(data []byte) ([]byte, ImageInfo, bool, error) {
	info, ok := p.Inspect(data)
	if !ok {
		return data, ImageInfo{}, false, nil
	}
	if p.MaxDimension <= 0 || (info.Width <= p.MaxDimension && info.Height <= p.MaxDimension) {
		return data, info, true, nil
	}

	format, err := imaging.FormatFromExtension(info.Format)
	if err != nil {
		return data, info, true, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, info, true, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	b := new(bytes.Buffer)
	if err := imaging.Encode(b, resized, format, imaging.JPEGQuality(90)); err != nil {
		return nil, info, true, fmt.Errorf("cannot encode %s: %w", info.Format, err)
	}

	bounds := resized.Bounds()
	return b.Bytes(), ImageInfo{Width: bounds.Dx(), Height: bounds.Dy(), Format: info.Format}, true, nil
}
