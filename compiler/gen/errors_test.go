package gen

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("bad size")
		err := NewSchemaError("app/entity.Widget", "Name", "invalid tag", cause)

		assert.Contains(t, err.Error(), "ddlexport: schema error")
		assert.Contains(t, err.Error(), "type app/entity.Widget")
		assert.Contains(t, err.Error(), "field Name")
		assert.Contains(t, err.Error(), "invalid tag")
		assert.Contains(t, err.Error(), "bad size")
	})

	t.Run("Error message with type only", func(t *testing.T) {
		err := &SchemaError{Type: "Widget"}
		assert.Contains(t, err.Error(), "type Widget")
		assert.NotContains(t, err.Error(), "field")
	})

	t.Run("Unwrap and Is", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("Widget", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.True(t, IsSchemaError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Dialect", "Oracle12cDialect", "unknown dialect")

		assert.Contains(t, err.Error(), "ddlexport: config error")
		assert.Contains(t, err.Error(), "Dialect")
		assert.Contains(t, err.Error(), "Oracle12cDialect")
		assert.Contains(t, err.Error(), "unknown dialect")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Namespace", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Namespace")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("OutputDir", nil, "missing")
		assert.ErrorIs(t, err, ErrMissingConfig)
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("unsupported type")
		err := NewGenerationError("create", "create.sql", "planning failed", cause)

		assert.Contains(t, err.Error(), "ddlexport: generation error")
		assert.Contains(t, err.Error(), "phase create")
		assert.Contains(t, err.Error(), "file: create.sql")
		assert.Contains(t, err.Error(), "planning failed")
		assert.Contains(t, err.Error(), "unsupported type")
	})

	t.Run("Unwrap and Is", func(t *testing.T) {
		cause := errors.New("atlas")
		err := NewGenerationError("drop", "", "", cause)

		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("Widget", "Name", nil, "duplicate column")
	assert.Contains(t, err.Error(), "ddlexport: validation error")
	assert.Contains(t, err.Error(), "type Widget")
	assert.Contains(t, err.Error(), "field Name")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.True(t, IsValidationError(err))

	cause := errors.New("validation failed")
	err = &ValidationError{Cause: cause}
	assert.Equal(t, cause, err.Unwrap())
}

func TestIOError(t *testing.T) {
	err := &IOError{Op: "create", Path: "/out/create.sql", Err: os.ErrPermission}

	assert.Equal(t, "ddlexport: create /out/create.sql: permission denied", err.Error())
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, IsIOError(fmt.Errorf("write: %w", err)))
	assert.False(t, IsIOError(errors.New("other")))
}

func TestSentinelErrors(t *testing.T) {
	for err, msg := range map[error]string{
		ErrInvalidSchema:    "ddlexport: invalid schema",
		ErrMissingConfig:    "ddlexport: missing configuration",
		ErrGenerationFailed: "ddlexport: script generation failed",
		ErrValidationFailed: "ddlexport: validation failed",
		ErrIO:               "ddlexport: i/o failure",
	} {
		assert.Equal(t, msg, err.Error())
	}
}
