package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/pkg/pagination"
)

// fakeRepo là repository in-memory, đếm số lần gọi
type fakeRepo struct {
	mu      sync.Mutex
	seq     int
	items   map[string]*girl.Girl
	calls   map[string]int
	updated []*girl.Girl
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*girl.Girl{}, calls: map[string]int{}}
}

func clone(g *girl.Girl) *girl.Girl {
	cp := *g
	cp.Tags = append([]string(nil), g.Tags...)
	if g.Age != nil {
		age := *g.Age
		cp.Age = &age
	}
	return &cp
}

func (r *fakeRepo) Create(_ context.Context, g *girl.Girl) (*girl.Girl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	r.seq++
	stored := clone(g)
	stored.ID = fmt.Sprintf("%024x", r.seq)
	r.items[stored.ID] = stored
	return clone(stored), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*girl.Girl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindByID"]++
	g, ok := r.items[id]
	if !ok {
		return nil, girl.ErrGirlNotFound
	}
	return clone(g), nil
}

func (r *fakeRepo) FindBySlug(_ context.Context, slug string) (*girl.Girl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindBySlug"]++
	for _, g := range r.items {
		if g.Slug == slug {
			return clone(g), nil
		}
	}
	return nil, girl.ErrGirlNotFound
}

func (r *fakeRepo) FindByUsernameOrName(_ context.Context, username, name, excludeID string) (*girl.Girl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.items {
		if g.ID == excludeID {
			continue
		}
		if g.Username == username || g.Name == name {
			return clone(g), nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Update(_ context.Context, g *girl.Girl) (*girl.Girl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	if _, ok := r.items[g.ID]; !ok {
		return nil, girl.ErrGirlNotFound
	}
	r.items[g.ID] = clone(g)
	r.updated = append(r.updated, clone(g))
	return clone(g), nil
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

func (r *fakeRepo) IncrementPosts(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return girl.ErrGirlNotFound
	}
	g.Posts += int64(delta)
	return nil
}

func (r *fakeRepo) List(_ context.Context, f girl.ListFilter) (*pagination.Page[*girl.Girl], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*girl.Girl, 0, len(r.items))
	for _, g := range r.items {
		items = append(items, clone(g))
	}
	page := pagination.NewPage(items, int64(len(items)), pagination.New(f.Page, f.Limit))
	return &page, nil
}

func (r *fakeRepo) Summaries(context.Context, []string) (map[string]girl.Summary, error) {
	return map[string]girl.Summary{}, nil
}

// recordingStorage ghi lại thứ tự các call tới storage
type recordingStorage struct {
	calls     []string
	deleteErr error
	uploadErr error
	seq       int
}

func (s *recordingStorage) Name() string { return "fake" }

func (s *recordingStorage) Upload(_ context.Context, file storage.File, opts storage.UploadOptions) (*storage.UploadResult, error) {
	s.calls = append(s.calls, "upload:"+opts.Folder+"/"+file.Name)
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.seq++
	id := fmt.Sprintf("%s/asset-%d", opts.Folder, s.seq)
	return &storage.UploadResult{RemoteID: id, URL: "http://cdn/" + id, SecureURL: "https://cdn/" + id}, nil
}

func (s *recordingStorage) Delete(_ context.Context, remoteID string) error {
	s.calls = append(s.calls, "delete:"+remoteID)
	return s.deleteErr
}

func (s *recordingStorage) GenerateURL(_ context.Context, remoteID string, opts storage.URLOptions) (string, error) {
	s.calls = append(s.calls, "url:"+remoteID)
	return fmt.Sprintf("https://cdn/%s?w=%d&h=%d&c=%s&q=%s", remoteID, opts.Width, opts.Height, opts.Crop, opts.Quality), nil
}

func (s *recordingStorage) ResolveID(rawURL string) (string, error) {
	return "", errors.New("not used")
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
