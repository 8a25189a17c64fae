package post

import (
	"context"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/pkg/pagination"
)

// Repository là data access của posts collection.
// Các method trả *Post đều đã populate GirlSummary.
type Repository interface {
	Create(ctx context.Context, p *Post) (*Post, error)

	// FindByID / FindBySlug return ErrPostNotFound when absent
	FindByID(ctx context.Context, id string) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// FindByTitle returns (nil, nil) when no other post has this title
	FindByTitle(ctx context.Context, title, excludeID string) (*Post, error)

	// IncrementViews $inc views 1 lần và trả document sau khi tăng
	IncrementViews(ctx context.Context, slug string) (*Post, error)

	Update(ctx context.Context, p *Post) (*Post, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ListFilter) (*pagination.Page[*Post], error)
}

// GirlSummaries load display fields của girl theo id trong một query
type GirlSummaries interface {
	Summaries(ctx context.Context, ids []string) (map[string]girl.Summary, error)
}

// GirlDirectory là phần của girl repository mà post service cần
type GirlDirectory interface {
	FindByID(ctx context.Context, id string) (*girl.Girl, error)
	IncrementPosts(ctx context.Context, id string, delta int) error
}
