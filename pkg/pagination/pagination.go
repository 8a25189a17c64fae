// Package pagination provides the offset pagination parameters and the page
// envelope returned by every list endpoint.
package pagination

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 9
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
)

// Params holds a normalized page and limit.
type Params struct {
	Page  int
	Limit int
}

// New normalizes raw page/limit values. Page below 1 becomes DefaultPage,
// limit below 1 becomes DefaultLimit and limit above MaxLimit is clamped.
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	if p.Page <= 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// Page is the normalized list envelope.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
}

// NewPage builds the envelope. totalPages = ceil(total/limit) and
// hasNextPage = page < totalPages.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
	}
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](in Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(in.Items))
	for i, item := range in.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:       out,
		Total:       in.Total,
		Page:        in.Page,
		Limit:       in.Limit,
		TotalPages:  in.TotalPages,
		HasNextPage: in.HasNextPage,
	}
}
