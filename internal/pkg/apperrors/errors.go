package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	// ErrStorageUnavailable marks failures to reach the storage medium at all,
	// as opposed to a statement that ran and failed.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInternalServer = errors.New("internal server error")
)

// Kind is the coarse class of an error as seen by API callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "internal"
	}
}

// KindOf classifies err. Anything not recognised is internal.
func KindOf(err error) Kind {
	var validationError *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidArgument), errors.As(err, &validationError):
		return KindValidation
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	default:
		return KindInternal
	}
}

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

func WrapStorageUnavailable(cause error, message string) error {
	return &AppError{
		Code:    "STORAGE_UNAVAILABLE",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrStorageUnavailable, cause),
	}
}
