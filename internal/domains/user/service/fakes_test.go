package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gallery-backend/internal/domains/user"
	"gallery-backend/internal/infrastructure/storage"
)

type fakeRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*user.User
	calls map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*user.User{}, calls: map[string]int{}}
}

func clone(u *user.User) *user.User {
	cp := *u
	return &cp
}

func (r *fakeRepo) Create(_ context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	r.seq++
	stored := clone(u)
	stored.ID = fmt.Sprintf("%024x", r.seq)
	r.items[stored.ID] = stored
	return clone(stored), nil
}

func (r *fakeRepo) find(match func(*user.User) bool) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Username == username })
}

func (r *fakeRepo) Update(_ context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	if _, ok := r.items[u.ID]; !ok {
		return nil, user.ErrUserNotFound
	}
	r.items[u.ID] = clone(u)
	return clone(u), nil
}

func (r *fakeRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

type recordingStorage struct {
	calls     []string
	deleteErr error
	seq       int
}

func (s *recordingStorage) Name() string { return "fake" }

func (s *recordingStorage) Upload(_ context.Context, file storage.File, opts storage.UploadOptions) (*storage.UploadResult, error) {
	s.calls = append(s.calls, "upload:"+opts.Folder+"/"+file.Name)
	s.seq++
	id := fmt.Sprintf("%s/asset-%d", opts.Folder, s.seq)
	return &storage.UploadResult{RemoteID: id, URL: "http://cdn/" + id, SecureURL: "https://cdn/" + id}, nil
}

func (s *recordingStorage) Delete(_ context.Context, remoteID string) error {
	s.calls = append(s.calls, "delete:"+remoteID)
	return s.deleteErr
}

func (s *recordingStorage) GenerateURL(_ context.Context, remoteID string, _ storage.URLOptions) (string, error) {
	return "https://cdn/" + remoteID, nil
}

func (s *recordingStorage) ResolveID(rawURL string) (string, error) {
	return rawURL, nil
}

// fakeTokens trả token dạng "token:<id>:<role>"
type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, role string) (string, error) {
	return "token:" + userID + ":" + role, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
