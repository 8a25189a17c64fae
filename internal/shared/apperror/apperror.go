// Package apperror defines the closed set of error kinds returned by services
// and the single table that maps each kind to an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind is the stable discriminator carried by every application error.
type Kind int

const (
	KindInternal Kind = iota
	KindAlreadyExists
	KindNotFound
	KindValidation
	KindPermissionDenied
	KindUnauthorized
	KindRateLimited
	KindStorageOperationFailed
)

var kindNames = map[Kind]string{
	KindInternal:               "INTERNAL",
	KindAlreadyExists:          "ALREADY_EXISTS",
	KindNotFound:               "NOT_FOUND",
	KindValidation:             "VALIDATION_ERROR",
	KindPermissionDenied:       "PERMISSION_DENIED",
	KindUnauthorized:           "UNAUTHORIZED",
	KindRateLimited:            "RATE_LIMITED",
	KindStorageOperationFailed: "STORAGE_OPERATION_FAILED",
}

// statusByKind must list every Kind; apperror_test enforces it.
var statusByKind = map[Kind]int{
	KindInternal:               http.StatusInternalServerError,
	KindAlreadyExists:          http.StatusConflict,
	KindNotFound:               http.StatusNotFound,
	KindValidation:             http.StatusBadRequest,
	KindPermissionDenied:       http.StatusForbidden,
	KindUnauthorized:           http.StatusUnauthorized,
	KindRateLimited:            http.StatusTooManyRequests,
	KindStorageOperationFailed: http.StatusBadGateway,
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindInternal,
		KindAlreadyExists,
		KindNotFound,
		KindValidation,
		KindPermissionDenied,
		KindUnauthorized,
		KindRateLimited,
		KindStorageOperationFailed,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// HTTPStatus maps a kind to its response status. Unknown kinds map to 500.
func HTTPStatus(k Kind) int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error value.
//
// Two errors are considered equal by errors.Is when Kind and Code match, so
// domain sentinels keep matching after WithCause or WithFields copies.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError

	// Storage failures carry the provider and the remote id they attempted.
	Provider string
	RemoteID string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.RemoteID != "" {
		fmt.Fprintf(&b, " (remote id %q)", e.RemoteID)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithFields returns a copy of e carrying the given field violations.
func (e *Error) WithFields(fields ...FieldError) *Error {
	cp := *e
	cp.Fields = append([]FieldError(nil), fields...)
	return &cp
}

// New creates an error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func AlreadyExists(code, message string) *Error {
	return New(KindAlreadyExists, code, message)
}

func PermissionDenied(code, message string) *Error {
	return New(KindPermissionDenied, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

func RateLimited(code, message string) *Error {
	return New(KindRateLimited, code, message)
}

// Validation creates a validation error with the given violations.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_FAILED", Message: message, Fields: fields}
}

// Internal wraps an unexpected collaborator failure.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: message, Err: cause}
}

// Storage wraps a provider failure for operation op on remoteID.
func Storage(provider, op, remoteID string, cause error) *Error {
	return &Error{
		Kind:     KindStorageOperationFailed,
		Code:     strings.ToUpper(op) + "_FAILED",
		Message:  fmt.Sprintf("%s %s failed", provider, op),
		Provider: provider,
		RemoteID: remoteID,
		Err:      cause,
	}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// FromValidation converts an ozzo-validation result into a validation error
// that lists every violated field, sorted by field path. Nil stays nil and
// errors that are not validation errors are returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var single validation.Error
		if errors.As(err, &single) {
			return Validation("validation failed", FieldError{Message: single.Error()})
		}
		return err
	}

	var fields []FieldError
	flatten("", verrs, &fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return Validation("validation failed", fields...).WithCause(err)
}

func flatten(prefix string, verrs validation.Errors, out *[]FieldError) {
	for key, fieldErr := range verrs {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			flatten(path, nested, out)
			continue
		}
		*out = append(*out, FieldError{Field: path, Message: fieldErr.Error()})
	}
}
