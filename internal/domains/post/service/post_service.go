package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/utils"
	"gallery-backend/pkg/logger"
	"gallery-backend/pkg/pagination"
)

type postService struct {
	repo    post.Repository
	girls   post.GirlDirectory
	storage storage.Provider
	now     func() time.Time
}

func NewPostService(repo post.Repository, girls post.GirlDirectory, provider storage.Provider) post.Service {
	return &postService{
		repo:    repo,
		girls:   girls,
		storage: provider,
		now:     time.Now,
	}
}

// ========================================
// CREATE
// ========================================

func (s *postService) Create(ctx context.Context, req post.CreatePostRequest, file *storage.File) (*post.Post, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUSINESS RULE: title unique
	existing, err := s.repo.FindByTitle(ctx, req.Title, "")
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if existing != nil {
		return nil, post.ErrPostAlreadyExists
	}

	// 3. GIRL phải tồn tại
	if _, err := s.girls.FindByID(ctx, req.Girl); err != nil {
		return nil, err
	}

	// 4. DERIVE SLUG
	slug, err := slugFor(req.Title)
	if err != nil {
		return nil, err
	}

	// 5. UPLOAD tối đa 1 asset làm content order 0
	content := []post.ContentItem{}
	if file != nil {
		if kind := file.Kind(); kind != string(post.ContentImage) && kind != string(post.ContentVideo) {
			return nil, invalidContent(*file)
		}
		item, err := s.upload(ctx, slug, *file, 0)
		if err != nil {
			return nil, err
		}
		content = append(content, item)
	}

	// 6. BUILD ENTITY
	now := s.now()
	p := &post.Post{
		Title:           req.Title,
		Slug:            slug,
		Description:     req.Description,
		Content:         content,
		Status:          req.Status,
		Visibility:      req.Visibility,
		Girl:            req.Girl,
		Tags:            utils.UniqueStrings(req.Tags...),
		Keywords:        utils.UniqueStrings(req.Keywords...),
		MetaDescription: req.MetaDescription,
		PublishedAt:     req.PublishedAt,
		ScheduledAt:     req.ScheduledAt,
		RelatedPosts:    utils.UniqueStrings(req.RelatedPosts...),
		FeaturedIn:      utils.UniqueStrings(req.FeaturedIn...),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Status == "" {
		p.Status = post.StatusDraft
	}
	if p.Visibility == "" {
		p.Visibility = post.VisibilityPrivate
	}
	if req.Poll != nil {
		p.Poll = req.Poll.ToPoll()
	}

	// 7. DERIVED FIELDS
	p.RecountMedia()
	p.MergeTitleTags()
	p.MarkPublished(now)

	// 8. PERSIST
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	// 9. GIRL COUNTER
	if err := s.girls.IncrementPosts(ctx, created.Girl, 1); err != nil {
		return nil, fmt.Errorf("increment posts of girl %s: %w", created.Girl, err)
	}
	return created, nil
}

// ========================================
// READ
// ========================================

func (s *postService) GetByID(ctx context.Context, id string) (*post.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug: mỗi lần đọc tăng views đúng 1 ($inc atomic ở repository)
func (s *postService) GetBySlug(ctx context.Context, slug string) (*post.Post, error) {
	return s.repo.IncrementViews(ctx, slug)
}

func (s *postService) List(ctx context.Context, filter post.ListFilter) (*pagination.Page[*post.Post], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// ========================================
// UPDATE
// ========================================

func (s *postService) Update(ctx context.Context, id string, req post.UpdatePostRequest, files []storage.File) (*post.Post, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. LOAD CURRENT STATE
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. EMPTY PATCH
	if req.IsEmpty() && len(files) == 0 {
		return current, nil
	}

	// 4. MERGE
	updated := *current
	updated.Content = append([]post.ContentItem{}, current.Content...)
	req.ApplyTo(&updated)

	// 5. TITLE CHANGE: check trùng (trừ chính nó) + slug mới
	if updated.Title != current.Title {
		dup, err := s.repo.FindByTitle(ctx, updated.Title, current.ID)
		if err != nil {
			return nil, fmt.Errorf("check post exists: %w", err)
		}
		if dup != nil {
			return nil, post.ErrPostAlreadyExists
		}
		if updated.Slug, err = slugFor(updated.Title); err != nil {
			return nil, err
		}
	}

	// 6. GIRL CHANGE: girl mới phải tồn tại
	girlChanged := updated.Girl != current.Girl
	if girlChanged {
		if _, err := s.girls.FindByID(ctx, updated.Girl); err != nil {
			return nil, err
		}
		updated.GirlSummary = nil
	}

	// 7. STATUS RULES
	if updated.Status == post.StatusArchived && updated.ScheduledAt == nil {
		return nil, apperror.Validation("validation failed", apperror.FieldError{
			Field:   "scheduledAt",
			Message: "archived posts require scheduledAt",
		})
	}
	now := s.now()
	updated.MarkPublished(now)
	if req.Title != nil || req.Tags != nil {
		updated.MergeTitleTags()
	}

	// 8. APPEND FILES: kiểm tra hết trước khi upload file đầu tiên
	for _, f := range files {
		if kind := post.ContentType(f.Kind()); !kind.IsMedia() {
			return nil, invalidContent(f)
		}
	}
	for _, f := range files {
		item, err := s.upload(ctx, updated.Slug, f, updated.NextOrder())
		if err != nil {
			return nil, err
		}
		updated.Content = append(updated.Content, item)
	}

	// 9. PERSIST
	updated.RecountMedia()
	updated.UpdatedAt = now
	out, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	// 10. MOVE COUNTER sang girl mới
	if girlChanged {
		s.decrementPosts(ctx, current.Girl)
		if err := s.girls.IncrementPosts(ctx, out.Girl, 1); err != nil {
			return nil, fmt.Errorf("increment posts of girl %s: %w", out.Girl, err)
		}
	}
	return out, nil
}

// DeleteContent: remote delete trước, thành công mới ghi content mới
func (s *postService) DeleteContent(ctx context.Context, id, contentURL string) (*post.Post, error) {
	// 1. VALIDATE INPUT
	if err := (post.DeleteContentRequest{ContentURL: contentURL}).Validate(); err != nil {
		return nil, err
	}

	// 2. LOAD + LOCATE theo URL chính xác
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	idx := current.ContentIndex(contentURL)
	if idx < 0 {
		return nil, post.ErrContentNotFound
	}

	// 3. REMOTE DELETE
	if err := s.deleteRemote(ctx, contentURL); err != nil {
		return nil, err
	}

	// 4. PERSIST content đã rút gọn
	updated := *current
	updated.Content = current.WithoutContent(idx)
	updated.RecountMedia()
	updated.UpdatedAt = s.now()
	return s.repo.Update(ctx, &updated)
}

// ========================================
// DELETE
// ========================================

func (s *postService) Delete(ctx context.Context, id string) (bool, error) {
	// 1. LOAD
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	// 2. DELETE mọi asset của content
	for _, item := range current.Content {
		if !item.Type.IsMedia() || item.URL == "" {
			continue
		}
		if err := s.deleteRemote(ctx, item.URL); err != nil {
			return false, err
		}
	}

	// 3. DELETE RECORD
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, post.ErrPostNotFound
	}

	// 4. GIRL COUNTER
	s.decrementPosts(ctx, current.Girl)
	return true, nil
}

// ========================================
// HELPERS
// ========================================

func (s *postService) upload(ctx context.Context, slug string, file storage.File, order int) (post.ContentItem, error) {
	res, err := s.storage.Upload(ctx, file, storage.UploadOptions{Folder: "post/" + slug})
	if err != nil {
		return post.ContentItem{}, err
	}
	item := post.ContentItem{
		Type:      post.ContentType(file.Kind()),
		URL:       res.SecureURL,
		Thumbnail: res.SecureURL,
		Order:     order,
	}
	if res.Width > 0 && res.Height > 0 {
		w, h := res.Width, res.Height
		item.Width, item.Height = &w, &h
	}
	return item, nil
}

func (s *postService) deleteRemote(ctx context.Context, url string) error {
	remoteID, err := s.storage.ResolveID(url)
	if err != nil {
		return err
	}
	return s.storage.Delete(ctx, remoteID)
}

// decrementPosts: girl đã bị xóa thì chỉ log
func (s *postService) decrementPosts(ctx context.Context, girlID string) {
	err := s.girls.IncrementPosts(ctx, girlID, -1)
	switch {
	case err == nil:
	case errors.Is(err, girl.ErrGirlNotFound):
		logger.Warn("Girl of post no longer exists", map[string]interface{}{"girl_id": girlID})
	default:
		logger.ErrorWithFields("Failed to decrement girl posts", err, map[string]interface{}{"girl_id": girlID})
	}
}

func invalidContent(f storage.File) error {
	return apperror.Validation("validation failed", apperror.FieldError{
		Field:   "content",
		Message: fmt.Sprintf("unsupported content type %q", f.ContentType),
	})
}

func slugFor(title string) (string, error) {
	slug := utils.GenerateSlug(title)
	if slug == "" {
		return "", apperror.Validation("validation failed", apperror.FieldError{
			Field:   "title",
			Message: "must contain at least one letter or digit",
		})
	}
	return slug, nil
}
