package post

import (
	"context"

	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/pkg/pagination"
)

type Service interface {
	// Create upload tối đa 1 file (image/video) làm content order 0
	Create(ctx context.Context, req CreatePostRequest, file *storage.File) (*Post, error)

	GetByID(ctx context.Context, id string) (*Post, error)

	// GetBySlug tăng views đúng 1
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	List(ctx context.Context, filter ListFilter) (*pagination.Page[*Post], error)

	// Update merge partial input, files được upload và append vào content
	Update(ctx context.Context, id string, req UpdatePostRequest, files []storage.File) (*Post, error)

	// DeleteContent xóa file trên storage trước, thành công mới persist content mới
	DeleteContent(ctx context.Context, id, contentURL string) (*Post, error)

	Delete(ctx context.Context, id string) (bool, error)
}
