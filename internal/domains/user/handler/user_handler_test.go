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

	"gallery-backend/internal/domains/user"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	err error

	gotActor  user.Actor
	gotID     string
	gotUpdate user.UpdateUserRequest
	gotImage  *storage.File
}

func (s *stubService) Register(_ context.Context, req user.RegisterRequest) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &user.User{ID: "65a1b2c3d4e5f6a7b8c9d0e1", Email: req.Email, PasswordHash: "secret-hash"}, nil
}

func (s *stubService) Login(context.Context, user.LoginRequest) (*user.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &user.LoginResponse{AccessToken: "tok", User: &user.User{ID: "1"}}, nil
}

func (s *stubService) GetProfile(_ context.Context, id string) (*user.User, error) {
	s.gotID = id
	return &user.User{ID: id}, s.err
}

func (s *stubService) Update(_ context.Context, actor user.Actor, id string, req user.UpdateUserRequest, image *storage.File) (*user.User, error) {
	s.gotActor, s.gotID, s.gotUpdate, s.gotImage = actor, id, req, image
	if s.err != nil {
		return nil, s.err
	}
	return &user.User{ID: id}, nil
}

func (s *stubService) Deactivate(_ context.Context, id string) (*user.User, error) {
	s.gotID = id
	return &user.User{ID: id}, s.err
}

func (s *stubService) AccountStatus(context.Context, string) (string, bool, error) {
	return "user", true, nil
}

// authAs giả lập AuthMiddleware đã chạy
func authAs(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, id)
		c.Set(middleware.ContextKeyRole, role)
		c.Next()
	}
}

func newRouter(svc user.Service, id, role string) *gin.Engine {
	h := NewUserHandler(svc)
	r := gin.New()
	r.POST("/users/register", h.Register)
	r.POST("/users/login", h.Login)
	authed := r.Group("/users", authAs(id, role))
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/update", h.UpdateProfile)
	authed.PUT("/deactivate", h.Deactivate)
	authed.PUT("/:id", h.UpdateUser)
	return r
}

func TestRegister_NeverLeaksPasswordHash(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{"name":"Grace","username":"grace","email":"g@example.com","password":"Secret#123"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	newRouter(&stubService{}, "", "").ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestLogin_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"bad credentials", user.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked", user.ErrAccountLocked, http.StatusTooManyRequests},
		{"inactive", user.ErrUserInactive, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"email":"g@example.com","password":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newRouter(&stubService{err: tt.err}, "", "").ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGetProfile_UsesAuthenticatedID(t *testing.T) {
	svc := &stubService{}
	w := httptest.NewRecorder()
	newRouter(svc, "me", "user").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/profile", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me", svc.gotID)
}

func TestUpdateProfile_MultipartImage(t *testing.T) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("data", `{"name":"Grace Hopper"}`))
	part, err := mw.CreateFormFile(ImageField, "me.gif")
	require.NoError(t, err)
	_, _ = part.Write([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/users/update", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	svc := &stubService{}
	w := httptest.NewRecorder()
	newRouter(svc, "me", "moderator").ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, user.Actor{ID: "me", Role: user.RoleModerator}, svc.gotActor)
	assert.Equal(t, "me", svc.gotID)
	require.NotNil(t, svc.gotUpdate.Name)
	require.NotNil(t, svc.gotImage)
	assert.Equal(t, "image/gif", svc.gotImage.ContentType)
}

func TestUpdateUser_TargetsPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/users/65a1b2c3d4e5f6a7b8c9d0e9", strings.NewReader(`{"role":"moderator","isActive":false}`))
	req.Header.Set("Content-Type", "application/json")

	svc := &stubService{}
	w := httptest.NewRecorder()
	newRouter(svc, "admin-id", "admin").ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "65a1b2c3d4e5f6a7b8c9d0e9", svc.gotID)
	assert.Equal(t, user.RoleAdmin, svc.gotActor.Role)
	require.NotNil(t, svc.gotUpdate.Role)
	assert.Equal(t, user.RoleModerator, *svc.gotUpdate.Role)
	require.NotNil(t, svc.gotUpdate.IsActive)
	assert.False(t, *svc.gotUpdate.IsActive)
}

func TestUpdate_PermissionDenied(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/users/update", strings.NewReader(`{"role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	newRouter(&stubService{err: user.ErrRoleChangeForbidden}, "me", "user").ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "ROLE_CHANGE_FORBIDDEN", env.Error.Code)
}

func TestDeactivate(t *testing.T) {
	svc := &stubService{}
	w := httptest.NewRecorder()
	newRouter(svc, "me", "user").ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/users/deactivate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me", svc.gotID)
}
