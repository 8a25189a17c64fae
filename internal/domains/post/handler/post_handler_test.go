package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/pkg/pagination"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	err error

	gotCreate post.CreatePostRequest
	gotFile   *storage.File
	gotUpdate post.UpdatePostRequest
	gotFiles  []storage.File
	gotFilter post.ListFilter
	gotURL    string
}

func (s *stubService) Create(_ context.Context, req post.CreatePostRequest, file *storage.File) (*post.Post, error) {
	s.gotCreate, s.gotFile = req, file
	if s.err != nil {
		return nil, s.err
	}
	return &post.Post{ID: "65a1b2c3d4e5f6a7b8c9d0e1", Title: req.Title, Slug: "beach-day"}, nil
}

func (s *stubService) GetByID(_ context.Context, id string) (*post.Post, error) {
	return &post.Post{ID: id}, s.err
}

func (s *stubService) GetBySlug(_ context.Context, slug string) (*post.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &post.Post{Slug: slug, Views: 1}, nil
}

func (s *stubService) List(_ context.Context, f post.ListFilter) (*pagination.Page[*post.Post], error) {
	s.gotFilter = f
	page := pagination.NewPage([]*post.Post{}, 0, pagination.New(f.Page, f.Limit))
	return &page, nil
}

func (s *stubService) Update(_ context.Context, id string, req post.UpdatePostRequest, files []storage.File) (*post.Post, error) {
	s.gotUpdate, s.gotFiles = req, files
	if s.err != nil {
		return nil, s.err
	}
	return &post.Post{ID: id}, nil
}

func (s *stubService) DeleteContent(_ context.Context, id, contentURL string) (*post.Post, error) {
	s.gotURL = contentURL
	if s.err != nil {
		return nil, s.err
	}
	return &post.Post{ID: id}, nil
}

func (s *stubService) Delete(context.Context, string) (bool, error) {
	return s.err == nil, s.err
}

func newRouter(svc post.Service) *gin.Engine {
	h := NewPostHandler(svc)
	r := gin.New()
	r.POST("/posts", h.Create)
	r.GET("/posts", h.List)
	r.GET("/posts/:slug", h.GetBySlug)
	r.PUT("/posts/:id", h.Update)
	r.PUT("/posts/:id/delete-content", h.DeleteContent)
	r.DELETE("/posts/:id", h.Delete)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

// 1x1 GIF
var gifPixel = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func multipartBody(t *testing.T, data string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("data", data))
	for name, content := range files {
		part, err := mw.CreateFormFile(ContentField, name)
		require.NoError(t, err)
		_, _ = part.Write(content)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestCreate_Multipart(t *testing.T) {
	body, contentType := multipartBody(t, `{"title":"Beach day","girl":"65a1b2c3d4e5f6a7b8c9d0e2"}`, map[string][]byte{"a.gif": gifPixel})
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)

	svc := &stubService{}
	w, env := do(t, newRouter(svc), req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "/api/v1/posts/beach-day", w.Header().Get("Location"))

	assert.Equal(t, "Beach day", svc.gotCreate.Title)
	require.NotNil(t, svc.gotFile)
	assert.Equal(t, "image/gif", svc.gotFile.ContentType)
	assert.Equal(t, "image", svc.gotFile.Kind())
}

func TestCreate_JSONWithoutFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"Beach day","likes":3}`))
	req.Header.Set("Content-Type", "application/json")

	svc := &stubService{err: apperror.Validation("validation failed", apperror.FieldError{Field: "likes", Message: "computed"})}
	w, env := do(t, newRouter(svc), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	require.NotNil(t, svc.gotCreate.Likes)
	assert.Equal(t, int64(3), *svc.gotCreate.Likes)
	assert.Nil(t, svc.gotFile)
}

func TestList_BindsQuery(t *testing.T) {
	svc := &stubService{}
	url := "/posts?tags=a&tags=b&minLikes=10&featured=true&publishedAfter=2024-01-01T00:00:00Z&sortBy=popularity"
	w, _ := do(t, newRouter(svc), httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"a", "b"}, svc.gotFilter.Tags)
	require.NotNil(t, svc.gotFilter.MinLikes)
	assert.Equal(t, int64(10), *svc.gotFilter.MinLikes)
	assert.True(t, svc.gotFilter.Featured)
	require.NotNil(t, svc.gotFilter.PublishedAfter)
	assert.Equal(t, 2024, svc.gotFilter.PublishedAfter.Year())
	assert.Equal(t, "popularity", svc.gotFilter.SortBy)
}

func TestGetBySlug(t *testing.T) {
	w, env := do(t, newRouter(&stubService{}), httptest.NewRequest(http.MethodGet, "/posts/beach-day", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var p post.Post
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, int64(1), p.Views)

	w, env = do(t, newRouter(&stubService{err: post.ErrPostNotFound}), httptest.NewRequest(http.MethodGet, "/posts/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "POST_NOT_FOUND", env.Error.Code)
}

func TestUpdate_MultipleFiles(t *testing.T) {
	body, contentType := multipartBody(t, `{"description":""}`, map[string][]byte{"a.gif": gifPixel, "b.gif": gifPixel})
	req := httptest.NewRequest(http.MethodPut, "/posts/65a1b2c3d4e5f6a7b8c9d0e1", body)
	req.Header.Set("Content-Type", contentType)

	svc := &stubService{}
	w, _ := do(t, newRouter(svc), req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.gotFiles, 2)
	require.NotNil(t, svc.gotUpdate.Description)
	assert.Empty(t, *svc.gotUpdate.Description)
}

func TestDeleteContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/posts/65a1b2c3d4e5f6a7b8c9d0e1/delete-content", strings.NewReader(`{"contentUrl":"https://cdn/b"}`))
	req.Header.Set("Content-Type", "application/json")

	svc := &stubService{}
	w, _ := do(t, newRouter(svc), req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn/b", svc.gotURL)

	req = httptest.NewRequest(http.MethodPut, "/posts/65a1b2c3d4e5f6a7b8c9d0e1/delete-content", strings.NewReader(`{"contentUrl":"https://cdn/zzz"}`))
	req.Header.Set("Content-Type", "application/json")
	w, env := do(t, newRouter(&stubService{err: post.ErrContentNotFound}), req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CONTENT_NOT_FOUND", env.Error.Code)
}

func TestDelete(t *testing.T) {
	w, env := do(t, newRouter(&stubService{}), httptest.NewRequest(http.MethodDelete, "/posts/65a1b2c3d4e5f6a7b8c9d0e1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}
