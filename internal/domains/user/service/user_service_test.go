package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gallery-backend/internal/domains/user"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/pkg/cache"
)

const password = "Secret#123"

type fixture struct {
	svc     *userService
	repo    *fakeRepo
	storage *recordingStorage
}

func newFixture() *fixture {
	f := &fixture{repo: newFakeRepo(), storage: &recordingStorage{}}
	svc := NewUserService(f.repo, f.storage, fakeTokens{}, cache.NewMemoryCache(), Options{
		MaxLoginAttempts: 3,
		LoginLockout:     time.Minute,
		TokenTTL:         time.Hour,
	}).(*userService)
	svc.hashCost = bcrypt.MinCost
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
func rolePtr(r user.Role) *user.Role {
	return &r
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected apperror, got %v", err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	var fields []string
	for _, fe := range appErr.Fields {
		fields = append(fields, fe.Field)
	}
	return fields
}

func (f *fixture) register(t *testing.T, username, email string) *user.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), user.RegisterRequest{
		Name:     "Grace Hopper",
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) promote(id string) {
	f.repo.items[id].Role = user.RoleAdmin
}

// ========================================
// REGISTER + LOGIN
// ========================================

func TestRegister(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "Grace@Example.com")

	assert.Equal(t, "grace@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, password, u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)))
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture()
	f.register(t, "grace", "grace@example.com")

	_, err := f.svc.Register(context.Background(), user.RegisterRequest{Name: "Other", Username: "other", Email: "GRACE@example.com", Password: password})
	assert.True(t, errors.Is(err, user.ErrEmailAlreadyExists))

	_, err = f.svc.Register(context.Background(), user.RegisterRequest{Name: "Other", Username: "grace", Email: "other@example.com", Password: password})
	assert.True(t, errors.Is(err, user.ErrUsernameAlreadyExists))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Register(context.Background(), user.RegisterRequest{
		Name:     "Al",
		Username: "bad name",
		Email:    "nope",
		Password: "password1",
	})
	assert.Equal(t, []string{"email", "name", "password", "username"}, fieldNames(t, err))
	assert.Zero(t, f.repo.calls["Create"])
}

func TestLogin(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")

	res, err := f.svc.Login(context.Background(), user.LoginRequest{Email: "grace@example.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "token:"+u.ID+":user", res.AccessToken)
	assert.Equal(t, fixedNow.Add(time.Hour), res.ExpiresAt)
	require.NotNil(t, res.User.LastLoginAt)
	assert.Equal(t, fixedNow, *f.repo.items[u.ID].LastLoginAt)
}

func TestLogin_UnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	f := newFixture()
	f.register(t, "grace", "grace@example.com")

	_, err := f.svc.Login(context.Background(), user.LoginRequest{Email: "ghost@example.com", Password: password})
	assert.True(t, errors.Is(err, user.ErrInvalidCredentials))

	_, err = f.svc.Login(context.Background(), user.LoginRequest{Email: "grace@example.com", Password: "Wrong#123"})
	assert.True(t, errors.Is(err, user.ErrInvalidCredentials))
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestLogin_LocksAfterMaxAttempts(t *testing.T) {
	f := newFixture()
	f.register(t, "grace", "grace@example.com")
	ctx := context.Background()
	wrong := user.LoginRequest{Email: "grace@example.com", Password: "Wrong#123"}

	_, err := f.svc.Login(ctx, wrong)
	assert.True(t, errors.Is(err, user.ErrInvalidCredentials))
	_, err = f.svc.Login(ctx, wrong)
	assert.True(t, errors.Is(err, user.ErrInvalidCredentials))

	_, err = f.svc.Login(ctx, wrong)
	assert.True(t, errors.Is(err, user.ErrAccountLocked))
	assert.True(t, apperror.IsKind(err, apperror.KindRateLimited))

	// đúng password cũng bị chặn trong thời gian khóa
	_, err = f.svc.Login(ctx, user.LoginRequest{Email: "grace@example.com", Password: password})
	assert.True(t, errors.Is(err, user.ErrAccountLocked))
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	f := newFixture()
	f.register(t, "grace", "grace@example.com")
	ctx := context.Background()
	wrong := user.LoginRequest{Email: "grace@example.com", Password: "Wrong#123"}

	for i := 0; i < 2; i++ {
		_, _ = f.svc.Login(ctx, wrong)
	}
	_, err := f.svc.Login(ctx, user.LoginRequest{Email: "grace@example.com", Password: password})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.svc.Login(ctx, wrong)
		assert.True(t, errors.Is(err, user.ErrInvalidCredentials))
	}
}

func TestLogin_Inactive(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	_, err := f.svc.Deactivate(context.Background(), u.ID)
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), user.LoginRequest{Email: "grace@example.com", Password: password})
	assert.True(t, errors.Is(err, user.ErrUserInactive))

	role, active, err := f.svc.AccountStatus(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", role)
	assert.False(t, active)
}

// ========================================
// UPDATE
// ========================================

func TestUpdate_RoleChangeRequiresAdmin(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	self := user.Actor{ID: u.ID, Role: user.RoleUser}

	_, err := f.svc.Update(context.Background(), self, u.ID, user.UpdateUserRequest{Role: rolePtr(user.RoleAdmin)}, nil)
	assert.True(t, errors.Is(err, user.ErrRoleChangeForbidden))
	assert.True(t, apperror.IsKind(err, apperror.KindPermissionDenied))
	assert.Equal(t, user.RoleUser, f.repo.items[u.ID].Role)

	admin := f.register(t, "ada", "ada@example.com")
	f.promote(admin.ID)
	updated, err := f.svc.Update(context.Background(), user.Actor{ID: admin.ID, Role: user.RoleAdmin}, u.ID,
		user.UpdateUserRequest{Role: rolePtr(user.RoleModerator), IsActive: boolPtr(false)}, nil)
	require.NoError(t, err)
	assert.Equal(t, user.RoleModerator, updated.Role)
	assert.False(t, updated.IsActive)
}

func TestUpdate_SameRoleIsNotAChange(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	_, err := f.svc.Update(context.Background(), user.Actor{ID: u.ID, Role: user.RoleUser}, u.ID,
		user.UpdateUserRequest{Role: rolePtr(user.RoleUser), Name: strPtr("Grace B. Hopper")}, nil)
	assert.NoError(t, err)
}

func TestUpdate_ForeignUserRequiresAdmin(t *testing.T) {
	f := newFixture()
	a := f.register(t, "grace", "grace@example.com")
	b := f.register(t, "ada", "ada@example.com")

	_, err := f.svc.Update(context.Background(), user.Actor{ID: a.ID, Role: user.RoleModerator}, b.ID,
		user.UpdateUserRequest{Name: strPtr("Hacked")}, nil)
	assert.True(t, errors.Is(err, user.ErrForeignUpdateForbidden))
}

func TestUpdate_EmailRecheckExcludesSelf(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	f.register(t, "ada", "ada@example.com")
	self := user.Actor{ID: u.ID, Role: user.RoleUser}

	_, err := f.svc.Update(context.Background(), self, u.ID, user.UpdateUserRequest{Email: strPtr("GRACE@example.com")}, nil)
	assert.NoError(t, err)

	_, err = f.svc.Update(context.Background(), self, u.ID, user.UpdateUserRequest{Email: strPtr("ada@example.com")}, nil)
	assert.True(t, errors.Is(err, user.ErrEmailAlreadyExists))
}

func TestUpdate_PasswordIsRehashed(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")

	_, err := f.svc.Update(context.Background(), user.Actor{ID: u.ID}, u.ID, user.UpdateUserRequest{Password: strPtr("Another#456")}, nil)
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), user.LoginRequest{Email: "grace@example.com", Password: "Another#456"})
	assert.NoError(t, err)
}

func TestUpdate_ProfileImageReplacement(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	f.repo.items[u.ID].ImageProfile = user.ProfileImage{URL: "https://cdn/old", PublicID: "old", Extension: "jpg"}

	file := storage.File{Name: "me.png", ContentType: "image/png", Data: []byte{1}}
	updated, err := f.svc.Update(context.Background(), user.Actor{ID: u.ID}, u.ID, user.UpdateUserRequest{}, &file)
	require.NoError(t, err)

	assert.Equal(t, []string{"delete:old", "upload:user/grace/me.png"}, f.storage.calls)
	assert.Equal(t, user.ProfileImage{URL: "https://cdn/user/grace/asset-1", PublicID: "user/grace/asset-1", Extension: "png"}, updated.ImageProfile)
}

func TestUpdate_FailingDeletePreventsUpload(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	f.repo.items[u.ID].ImageProfile = user.ProfileImage{PublicID: "old"}
	f.storage.deleteErr = apperror.Storage("fake", "delete", "old", errors.New("boom"))

	file := storage.File{Name: "me.png", ContentType: "image/png", Data: []byte{1}}
	_, err := f.svc.Update(context.Background(), user.Actor{ID: u.ID}, u.ID, user.UpdateUserRequest{}, &file)
	assert.True(t, apperror.IsKind(err, apperror.KindStorageOperationFailed))
	assert.Equal(t, []string{"delete:old"}, f.storage.calls)
	assert.Equal(t, "old", f.repo.items[u.ID].ImageProfile.PublicID)
	assert.Zero(t, f.repo.calls["Update"])
}

func TestUpdate_EmptyIsIdentity(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")

	got, err := f.svc.Update(context.Background(), user.Actor{ID: u.ID}, u.ID, user.UpdateUserRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.Zero(t, f.repo.calls["Update"])
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture()
	u := f.register(t, "grace", "grace@example.com")
	_, err := f.svc.Update(context.Background(), user.Actor{ID: u.ID}, u.ID, user.UpdateUserRequest{
		Name:     strPtr(""),
		Password: strPtr("short"),
		Role:     rolePtr("root"),
	}, nil)
	assert.Equal(t, []string{"name", "password", "role"}, fieldNames(t, err))
}

func TestDeactivate_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Deactivate(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1")
	assert.True(t, errors.Is(err, user.ErrUserNotFound))
}
