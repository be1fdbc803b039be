package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a service failure so the HTTP layer can map it to a
// status code without string matching.
type ErrorKind string

const (
	KindAuth                ErrorKind = "auth"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindForbiddenRoleSwitch ErrorKind = "forbidden_role_switch"
	KindInvalidState        ErrorKind = "invalid_state"
	KindDuplicateAssignment ErrorKind = "duplicate_assignment"
	KindDuplicateReview     ErrorKind = "duplicate_review"
	KindConflict            ErrorKind = "conflict"
	KindNotFound            ErrorKind = "not_found"
	KindValidation          ErrorKind = "validation"
	KindInternal            ErrorKind = "internal"
)

// ServiceError carries a kind, a caller-safe message and an optional cause.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewError creates a ServiceError without a cause.
func NewError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

// WrapError attaches a cause to a ServiceError.
func WrapError(kind ErrorKind, message string, err error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the error kind, defaulting to internal for unknown errors.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-safe message of a service error. Unknown
// errors get a generic message so internals never leak to clients.
func PublicMessage(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "Internal server error"
}

// HTTPStatus maps an error kind to its HTTP-status-equivalent category.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusUnauthorized
	case KindUnauthorized, KindForbiddenRoleSwitch:
		return http.StatusForbidden
	case KindInvalidState, KindDuplicateAssignment, KindDuplicateReview, KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
