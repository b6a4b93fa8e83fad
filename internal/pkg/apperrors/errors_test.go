package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("name", "is required")

	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "name", ve.Field)
		assert.Equal(t, "is required", ve.Message)
	}
	assert.Contains(t, err.Error(), "validation failed for field 'name': is required")
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := WrapDatabaseError(cause, "failed to insert customer")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[DB_ERROR] failed to insert customer", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindInternal},
		{"validation sentinel", fmt.Errorf("%w: name missing", ErrValidation), KindValidation},
		{"invalid argument", fmt.Errorf("%w: bad body", ErrInvalidArgument), KindValidation},
		{"validation struct", &ValidationError{Field: "months", Message: "bad"}, KindValidation},
		{"conflict", fmt.Errorf("%w: customers.aadhar", ErrAlreadyExists), KindConflict},
		{"storage unavailable", WrapStorageUnavailable(errors.New("unable to open database file"), "ping failed"), KindStorageUnavailable},
		{"database", WrapDatabaseError(errors.New("syntax error"), "query failed"), KindInternal},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "storage_unavailable", KindStorageUnavailable.String())
	assert.Equal(t, "internal", KindInternal.String())
}
