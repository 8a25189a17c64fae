package girl

import (
	"context"

	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/pkg/pagination"
)

// Service định nghĩa business logic của girl domain
type Service interface {
	Create(ctx context.Context, req CreateGirlRequest) (*Girl, error)
	GetByID(ctx context.Context, id string) (*Girl, error)

	// GetBySlug đi qua cache
	GetBySlug(ctx context.Context, slug string) (*Girl, error)
	List(ctx context.Context, filter ListFilter) (*pagination.Page[*Girl], error)

	// Update merge partial input; image != nil thay ảnh cũ (delete → upload → persist)
	Update(ctx context.Context, id string, req UpdateGirlRequest, image *storage.File) (*Girl, error)
	Delete(ctx context.Context, id string) (bool, error)
}
