package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/pkg/pagination"
)

// fakeRepo là posts repository in-memory
type fakeRepo struct {
	mu      sync.Mutex
	seq     int
	items   map[string]*post.Post
	calls   map[string]int
	updated []*post.Post
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*post.Post{}, calls: map[string]int{}}
}

func clone(p *post.Post) *post.Post {
	cp := *p
	cp.Content = append([]post.ContentItem{}, p.Content...)
	cp.Tags = append([]string{}, p.Tags...)
	cp.Keywords = append([]string{}, p.Keywords...)
	cp.RelatedPosts = append([]string{}, p.RelatedPosts...)
	cp.FeaturedIn = append([]string{}, p.FeaturedIn...)
	return &cp
}

func (r *fakeRepo) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	r.seq++
	stored := clone(p)
	stored.ID = fmt.Sprintf("%024x", r.seq)
	r.items[stored.ID] = stored
	return clone(stored), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return clone(p), nil
}

func (r *fakeRepo) FindBySlug(_ context.Context, slug string) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.Slug == slug {
			return clone(p), nil
		}
	}
	return nil, post.ErrPostNotFound
}

func (r *fakeRepo) FindByTitle(_ context.Context, title, excludeID string) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID != excludeID && p.Title == title {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) IncrementViews(_ context.Context, slug string) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["IncrementViews"]++
	for _, p := range r.items {
		if p.Slug == slug {
			p.Views++
			return clone(p), nil
		}
	}
	return nil, post.ErrPostNotFound
}

func (r *fakeRepo) Update(_ context.Context, p *post.Post) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	if _, ok := r.items[p.ID]; !ok {
		return nil, post.ErrPostNotFound
	}
	r.items[p.ID] = clone(p)
	r.updated = append(r.updated, clone(p))
	return clone(p), nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeRepo) List(_ context.Context, f post.ListFilter) (*pagination.Page[*post.Post], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*post.Post, 0, len(r.items))
	for _, p := range r.items {
		items = append(items, clone(p))
	}
	page := pagination.NewPage(items, int64(len(items)), pagination.New(f.Page, f.Limit))
	return &page, nil
}

// fakeGirls chỉ giữ số posts của mỗi girl
type fakeGirls struct {
	mu    sync.Mutex
	posts map[string]int
}

func newFakeGirls(ids ...string) *fakeGirls {
	g := &fakeGirls{posts: map[string]int{}}
	for _, id := range ids {
		g.posts[id] = 0
	}
	return g
}

func (g *fakeGirls) FindByID(_ context.Context, id string) (*girl.Girl, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.posts[id]
	if !ok {
		return nil, girl.ErrGirlNotFound
	}
	return &girl.Girl{ID: id, Posts: int64(n)}, nil
}

func (g *fakeGirls) IncrementPosts(_ context.Context, id string, delta int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.posts[id]; !ok {
		return girl.ErrGirlNotFound
	}
	g.posts[id] += delta
	return nil
}

// recordingStorage: remote id của URL "https://cdn/<id>" là "<id>"
type recordingStorage struct {
	calls     []string
	deleteErr error
	seq       int
	width     int
	height    int
}

func (s *recordingStorage) Name() string { return "fake" }

func (s *recordingStorage) Upload(_ context.Context, file storage.File, opts storage.UploadOptions) (*storage.UploadResult, error) {
	s.calls = append(s.calls, "upload:"+opts.Folder+"/"+file.Name)
	s.seq++
	id := fmt.Sprintf("%s/asset-%d", opts.Folder, s.seq)
	return &storage.UploadResult{
		RemoteID:  id,
		URL:       "http://cdn/" + id,
		SecureURL: "https://cdn/" + id,
		Width:     s.width,
		Height:    s.height,
	}, nil
}

func (s *recordingStorage) Delete(_ context.Context, remoteID string) error {
	s.calls = append(s.calls, "delete:"+remoteID)
	return s.deleteErr
}

func (s *recordingStorage) GenerateURL(_ context.Context, remoteID string, _ storage.URLOptions) (string, error) {
	return "https://cdn/" + remoteID, nil
}

func (s *recordingStorage) ResolveID(rawURL string) (string, error) {
	id, ok := strings.CutPrefix(rawURL, "https://cdn/")
	if !ok {
		return "", errors.New("foreign url")
	}
	return id, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
