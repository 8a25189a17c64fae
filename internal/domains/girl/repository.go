package girl

import (
	"context"

	"gallery-backend/pkg/pagination"
)

// Repository định nghĩa contract cho data access layer của girls collection.
// Mọi method nhận và trả ID dạng hex string.
type Repository interface {
	// Create lưu girl mới, trả entity đã có ID
	Create(ctx context.Context, g *Girl) (*Girl, error)

	// FindByID returns ErrGirlNotFound when absent
	FindByID(ctx context.Context, id string) (*Girl, error)

	// FindBySlug returns ErrGirlNotFound when absent
	FindBySlug(ctx context.Context, slug string) (*Girl, error)

	// FindByUsernameOrName tìm girl có username HOẶC name trùng, bỏ qua excludeID.
	// Returns (nil, nil) khi không có.
	FindByUsernameOrName(ctx context.Context, username, name, excludeID string) (*Girl, error)

	// Update ghi đè document bằng entity đã merge, trả bản sau update
	Update(ctx context.Context, g *Girl) (*Girl, error)

	// Delete returns false when nothing was deleted
	Delete(ctx context.Context, id string) (bool, error)

	// IncrementPosts cộng delta vào bộ đếm posts
	IncrementPosts(ctx context.Context, id string, delta int) error

	List(ctx context.Context, filter ListFilter) (*pagination.Page[*Girl], error)

	// Summaries trả display fields của các girl theo id (populate cho post)
	Summaries(ctx context.Context, ids []string) (map[string]Summary, error)
}
