package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("failed to read sheet", io.ErrUnexpectedEOF),
			want: "[PARSING] failed to read sheet: unexpected EOF",
		},
		{
			name: "without cause",
			err:  NewAppValidationError("dataset has no rows"),
			want: "[VALIDATION] dataset has no rows",
		},
		{
			name: "not found",
			err:  NewNotFoundError("batch"),
			want: "[NOT_FOUND] batch not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("could not write export", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewConfigError("invalid port", nil).
		WithContext("port", -1).
		WithContext("section", "server")

	assert.Equal(t, -1, err.Context["port"])
	assert.Equal(t, "server", err.Context["section"])
}

func TestConstructorTypes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want ErrorType
	}{
		{"parsing", NewParsingError("x", nil), ErrTypeParsing},
		{"storage", NewStorageError("x", nil), ErrTypeStorage},
		{"validation", NewAppValidationError("x"), ErrTypeValidation},
		{"not found", NewNotFoundError("x"), ErrTypeNotFound},
		{"permission", NewPermissionError("x"), ErrTypePermission},
		{"config", NewConfigError("x", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
		})
	}
}
