package utils

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

type ErrorKind string

const (
	ErrKindValidation   ErrorKind = "validation"
	ErrKindConflict     ErrorKind = "conflict"
	ErrKindNotFound     ErrorKind = "not_found"
	ErrKindUnauthorized ErrorKind = "unauthorized"
	ErrKindForbidden    ErrorKind = "forbidden"
	ErrKindUnavailable  ErrorKind = "unavailable"
	ErrKindPartial      ErrorKind = "partial_failure"
	ErrKindInternal     ErrorKind = "internal"
)

// AppError is the one error type that crosses service boundaries. Every
// failure a handler sees is either an AppError or gets mapped to an
// internal one; nothing is swallowed on the way up.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Kind: ErrKindValidation, Code: code, Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Kind: ErrKindConflict, Code: code, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: ErrKindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func NewUnauthorizedError(code, message string) *AppError {
	return &AppError{Kind: ErrKindUnauthorized, Code: code, Message: message}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Kind: ErrKindForbidden, Code: code, Message: message}
}

// NewTransientError marks a network-class store failure as retryable.
// The retry policy keys off this; application rejections never carry it.
func NewTransientError(op string, err error) *AppError {
	return &AppError{
		Kind:    ErrKindUnavailable,
		Code:    "STORE_TRANSIENT",
		Message: "transient store failure during " + op,
		Err:     err,
	}
}

// NewUnavailableError is the terminal form of a transient failure once the
// retry budget is spent.
func NewUnavailableError(err error) *AppError {
	return &AppError{
		Kind:    ErrKindUnavailable,
		Code:    "STORE_UNAVAILABLE",
		Message: "data store unavailable",
		Err:     err,
	}
}

// NewPartialFailureError reports an operation that committed its first step
// but failed a later one, so the caller can retry just the failed step.
func NewPartialFailureError(code, message string, err error) *AppError {
	return &AppError{Kind: ErrKindPartial, Code: code, Message: message, Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Code: "INTERNAL_ERROR", Message: ErrInternalServer, Err: err}
}

// KindOf extracts the error kind, defaulting to internal for foreign errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrKindInternal
}

func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}

// IsTransient reports whether err is worth retrying: either an error we
// explicitly marked transient at the repository boundary, or a raw
// network timeout that escaped classification.
func IsTransient(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == "STORE_TRANSIENT"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// HTTPStatus maps an error kind onto the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrKindValidation:
		return http.StatusBadRequest
	case ErrKindConflict:
		return http.StatusConflict
	case ErrKindNotFound:
		return http.StatusNotFound
	case ErrKindUnauthorized:
		return http.StatusUnauthorized
	case ErrKindForbidden:
		return http.StatusForbidden
	case ErrKindUnavailable:
		return http.StatusServiceUnavailable
	case ErrKindPartial:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
