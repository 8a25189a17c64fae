package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTableCoversEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		_, ok := statusByKind[k]
		assert.True(t, ok, "kind %s has no status", k)
		_, named := kindNames[k]
		assert.True(t, named, "kind %d has no name", k)
	}
	assert.Len(t, statusByKind, len(Kinds()))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindAlreadyExists, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindPermissionDenied, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindStorageOperationFailed, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.kind))
		})
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	sentinel := NotFound("GIRL_NOT_FOUND", "girl not found")

	wrapped := fmt.Errorf("get girl: %w", sentinel.WithCause(errors.New("no documents")))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.False(t, errors.Is(wrapped, NotFound("POST_NOT_FOUND", "post not found")))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestStorageErrorCarriesRemoteID(t *testing.T) {
	err := Storage("s3", "delete", "girls/a.jpg", errors.New("access denied"))

	assert.Equal(t, KindStorageOperationFailed, err.Kind)
	assert.Equal(t, "DELETE_FAILED", err.Code)
	assert.Equal(t, "girls/a.jpg", err.RemoteID)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "girls/a.jpg")
}

type sample struct {
	Name  string
	Age   int
	Inner inner
}

type inner struct {
	URL string
}

func (i inner) Validate() error {
	return validation.ValidateStruct(&i, validation.Field(&i.URL, validation.Required))
}

func TestFromValidationCollectsAllFields(t *testing.T) {
	s := sample{Age: 200}
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Age, validation.Max(120)),
		validation.Field(&s.Inner),
	)
	require.Error(t, err)

	converted := FromValidation(err)
	appErr, ok := As(converted)
	require.True(t, ok)
	assert.Equal(t, KindValidation, appErr.Kind)
	require.Len(t, appErr.Fields, 3)

	var names []string
	for _, f := range appErr.Fields {
		names = append(names, f.Field)
	}
	assert.Equal(t, []string{"Age", "Inner.URL", "Name"}, names)
}

func TestFromValidationPassthrough(t *testing.T) {
	assert.NoError(t, FromValidation(nil))

	plain := errors.New("db down")
	assert.Same(t, plain, FromValidation(plain))
}
