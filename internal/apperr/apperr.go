package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that need to react to it (HTTP status, UI message).
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindAuth              Kind = "AUTH_ERROR"
	KindPermissionDenied  Kind = "PERMISSION_DENIED"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Error is the application error carried from services up to the HTTP layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, apperr.ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Message: "insufficient stock"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrAuth              = &Error{Kind: KindAuth, Message: "authentication failed"}
	ErrPermissionDenied  = &Error{Kind: KindPermissionDenied, Message: "permission denied"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "internal error"}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...any) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func PermissionDenied(format string, args ...any) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. The message is what clients see; err stays in logs.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the response status used by the API.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides internal details from API clients.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			return appErr.Message
		}
		return appErr.Error()
	}
	return "Internal Server Error"
}
