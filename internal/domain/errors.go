package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports client input the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an id that does not resolve within the tenant scope.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a notification already resolved to a different
// terminal state. Current carries the actual stored status so the caller can
// reconcile its view.
type ConflictError struct {
	NotificationID uuid.UUID
	Current        string
	Requested      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("notification %s already resolved as %q, cannot set %q", e.NotificationID, e.Current, e.Requested)
}

// StorageError wraps a persistence failure. Merge operations are idempotent
// per survivor id, so callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
