package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "strategy", Message: "unknown strategy"}
	assert.Equal(t, "strategy: unknown strategy", err.Error())

	bare := &ValidationError{Message: "bad input"}
	assert.Equal(t, "bad input", bare.Error())
}

func TestNotFoundError(t *testing.T) {
	id := uuid.New()
	err := &NotFoundError{Resource: "lead", ID: id}
	assert.Contains(t, err.Error(), "lead")
	assert.Contains(t, err.Error(), id.String())
}

func TestConflictErrorCarriesCurrentStatus(t *testing.T) {
	id := uuid.New()
	err := &ConflictError{NotificationID: id, Current: NotificationStatusIgnored, Requested: NotificationStatusMerged}
	assert.Contains(t, err.Error(), "ignored")
	assert.Contains(t, err.Error(), "merged")
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &StorageError{Op: "create lead", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create lead")
}

func TestErrorsAsClassification(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", &ConflictError{Current: NotificationStatusMerged})

	var conflict *ConflictError
	require.True(t, errors.As(wrapped, &conflict))
	assert.Equal(t, NotificationStatusMerged, conflict.Current)

	var notFound *NotFoundError
	assert.False(t, errors.As(wrapped, &notFound))
}
