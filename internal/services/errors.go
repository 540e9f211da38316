// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies expected operation failures. Unknown ids, wrong
// lease states and the like are part of the normal contract and are returned
// as ServiceError values rather than bare errors so handlers can map them to
// HTTP statuses.
type ErrorKind string

const (
	ErrKindNotFound               ErrorKind = "NOT_FOUND"
	ErrKindInvalidStateTransition ErrorKind = "INVALID_STATE_TRANSITION"
	ErrKindAccessDenied           ErrorKind = "ACCESS_DENIED"
	ErrKindAlreadySigned          ErrorKind = "ALREADY_SIGNED"
	ErrKindTemplateNotFound       ErrorKind = "TEMPLATE_NOT_FOUND"
	ErrKindNotReadyForSigning     ErrorKind = "NOT_READY_FOR_SIGNING"
	ErrKindRenderFailure          ErrorKind = "RENDER_FAILURE"
	ErrKindExternalServiceFailure ErrorKind = "EXTERNAL_SERVICE_FAILURE"
	ErrKindValidationFailure      ErrorKind = "VALIDATION_FAILURE"
)

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

func newServiceError(kind ErrorKind, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapServiceError(kind ErrorKind, err error, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// KindOf returns the error kind, or ExternalServiceFailure for anything that
// escaped a collaborator without classification.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrKindExternalServiceFailure
}

// isUniqueViolation detects the duplicate-key error raised when two signing
// attempts race past the advisory pre-check. GORM's TranslateError maps the
// driver-specific unique-violation errors onto ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
