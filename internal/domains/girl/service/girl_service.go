package service

import (
	"context"
	"fmt"
	"time"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/utils"
	"gallery-backend/pkg/cache"
	"gallery-backend/pkg/logger"
	"gallery-backend/pkg/pagination"
)

const (
	cacheName = "girl_slug"

	// ảnh profile luôn được deliver 500x500
	imageSize    = 500
	imageCrop    = "fill"
	imageQuality = "auto"
)

// CacheObserver nhận kết quả mỗi lần lookup cache (hit, miss, error)
type CacheObserver func(cache, result string)

type girlService struct {
	repo    girl.Repository
	storage storage.Provider
	cache   cache.Cache
	ttl     time.Duration
	observe CacheObserver
	now     func() time.Time
}

// NewGirlService tạo service instance, observer có thể nil
func NewGirlService(
	repo girl.Repository,
	provider storage.Provider,
	c cache.Cache,
	ttl time.Duration,
	observer CacheObserver,
) girl.Service {
	if observer == nil {
		observer = func(string, string) {}
	}
	return &girlService{
		repo:    repo,
		storage: provider,
		cache:   c,
		ttl:     ttl,
		observe: observer,
		now:     time.Now,
	}
}

// ========================================
// CREATE
// ========================================

func (s *girlService) Create(ctx context.Context, req girl.CreateGirlRequest) (*girl.Girl, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUSINESS RULE: username hoặc name đã tồn tại
	existing, err := s.repo.FindByUsernameOrName(ctx, req.Username, req.Name, "")
	if err != nil {
		return nil, fmt.Errorf("check girl exists: %w", err)
	}
	if existing != nil {
		return nil, girl.ErrGirlAlreadyExists
	}

	// 3. DERIVE SLUG
	slug, err := slugFor(req.Name)
	if err != nil {
		return nil, err
	}

	// 4. BUILD ENTITY
	status := req.Status
	if status == "" {
		status = girl.StatusPrivate
	}
	now := s.now()
	g := &girl.Girl{
		Name:        req.Name,
		Username:    req.Username,
		Slug:        slug,
		Description: req.Description,
		Status:      status,
		Age:         req.Age,
		Country:     req.Country,
		Socials:     req.Socials,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.Tags = g.MergeTags(req.Tags)

	// 5. PERSIST
	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("create girl: %w", err)
	}
	return created, nil
}

// ========================================
// READ
// ========================================

func (s *girlService) GetByID(ctx context.Context, id string) (*girl.Girl, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug: cache-aside, key "girl:slug:<slug>"
func (s *girlService) GetBySlug(ctx context.Context, slug string) (*girl.Girl, error) {
	// STEP 1: CHECK CACHE FIRST
	key := slugCacheKey(slug)
	var cached girl.Girl
	found, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		s.observe(cacheName, "error")
		logger.Warn("Girl cache lookup failed", map[string]interface{}{"key": key, "error": err.Error()})
	case found:
		s.observe(cacheName, "hit")
		return &cached, nil
	default:
		s.observe(cacheName, "miss")
	}

	// STEP 2: CACHE MISS - QUERY DATABASE
	g, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// STEP 3: SET CACHE, lỗi cache không làm fail request
	if err := s.cache.Set(ctx, key, g, s.ttl); err != nil {
		logger.Warn("Girl cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return g, nil
}

func (s *girlService) List(ctx context.Context, filter girl.ListFilter) (*pagination.Page[*girl.Girl], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// ========================================
// UPDATE
// ========================================

func (s *girlService) Update(ctx context.Context, id string, req girl.UpdateGirlRequest, image *storage.File) (*girl.Girl, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. LOAD CURRENT STATE
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. EMPTY PATCH: trả nguyên trạng, không ghi DB
	if req.IsEmpty() && image == nil {
		return current, nil
	}

	// 4. MERGE các field có mặt
	updated := *current
	req.ApplyTo(&updated)

	// 5. NATURAL KEY CHANGE: check trùng, bỏ qua chính nó
	if updated.Name != current.Name || updated.Username != current.Username {
		dup, err := s.repo.FindByUsernameOrName(ctx, updated.Username, updated.Name, current.ID)
		if err != nil {
			return nil, fmt.Errorf("check girl exists: %w", err)
		}
		if dup != nil {
			return nil, girl.ErrGirlAlreadyExists
		}
	}
	if updated.Name != current.Name {
		if updated.Slug, err = slugFor(updated.Name); err != nil {
			return nil, err
		}
	}

	// 6. TAGS: derived tags luôn theo giá trị mới
	callerTags := req.Tags
	if callerTags == nil {
		callerTags = current.CallerTags()
	}
	updated.Tags = updated.MergeTags(callerTags)

	// 7. IMAGE REPLACEMENT: delete cũ → upload mới → URL
	if image != nil {
		asset, err := s.replaceImage(ctx, current.Image, updated.ImageFolder(), *image)
		if err != nil {
			return nil, err
		}
		updated.Image = asset
	}

	// 8. PERSIST
	updated.UpdatedAt = s.now()
	out, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	// 9. INVALIDATE CACHE (slug cũ và mới)
	s.invalidate(ctx, current.Slug, out.Slug)
	return out, nil
}

// replaceImage chạy tuần tự, bước nào lỗi thì dừng luôn
func (s *girlService) replaceImage(ctx context.Context, old girl.Asset, folder string, file storage.File) (girl.Asset, error) {
	if !old.IsEmpty() {
		if err := s.storage.Delete(ctx, old.PublicID); err != nil {
			return girl.Asset{}, err
		}
	}

	res, err := s.storage.Upload(ctx, file, storage.UploadOptions{Folder: folder})
	if err != nil {
		return girl.Asset{}, err
	}

	url, err := s.storage.GenerateURL(ctx, res.RemoteID, storage.URLOptions{
		Width:   imageSize,
		Height:  imageSize,
		Crop:    imageCrop,
		Quality: imageQuality,
	})
	if err != nil {
		return girl.Asset{}, err
	}
	return girl.Asset{URL: url, PublicID: res.RemoteID}, nil
}

// ========================================
// DELETE
// ========================================

func (s *girlService) Delete(ctx context.Context, id string) (bool, error) {
	// 1. LOAD
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	// 2. DELETE ASSET nếu có
	if !current.Image.IsEmpty() {
		if err := s.storage.Delete(ctx, current.Image.PublicID); err != nil {
			return false, err
		}
	}

	// 3. DELETE RECORD
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, girl.ErrGirlNotFound
	}

	s.invalidate(ctx, current.Slug)
	return true, nil
}

// ========================================
// HELPERS
// ========================================

func slugCacheKey(slug string) string {
	return "girl:slug:" + slug
}

func (s *girlService) invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, slug := range utils.UniqueStrings(slugs...) {
		keys = append(keys, slugCacheKey(slug))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("Girl cache invalidation failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

func slugFor(name string) (string, error) {
	slug := utils.GenerateSlug(name)
	if slug == "" {
		return "", apperror.Validation("validation failed", apperror.FieldError{
			Field:   "name",
			Message: "must contain at least one letter or digit",
		})
	}
	return slug, nil
}
