package dedup

import (
	"context"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/naperu/heraldo/internal/repository"
)

// Queue wraps the pending-notification workflow. All transitions go through
// SetStatus so racing resolutions serialize on one conditional UPDATE.
type Queue struct {
	notifications *repository.NotificationRepository
}

func NewQueue(notifications *repository.NotificationRepository) *Queue {
	return &Queue{notifications: notifications}
}

// ListPending returns the tenant's open notifications, newest first.
func (q *Queue) ListPending(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.DuplicateNotification, error) {
	items, err := q.notifications.ListPending(ctx, accountID, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list pending notifications", Err: err}
	}
	return items, nil
}

// SetStatus moves a pending notification to a terminal status.
//   - unknown id within the tenant: NotFoundError
//   - already in the requested status: no-op success
//   - already in a different terminal status: ConflictError with the stored status
func (q *Queue) SetStatus(ctx context.Context, accountID, id uuid.UUID, newStatus string, operatorID *uuid.UUID) (*domain.DuplicateNotification, error) {
	if !domain.IsTerminalNotificationStatus(newStatus) {
		return nil, &domain.ValidationError{Field: "status", Message: "must be one of ignored, reviewed, merged"}
	}

	updated, err := q.notifications.UpdateStatusConditional(ctx, accountID, id,
		[]string{domain.NotificationStatusPending}, newStatus, operatorID)
	if err != nil {
		return nil, &domain.StorageError{Op: "update notification status", Err: err}
	}
	if updated {
		return q.reload(ctx, accountID, id)
	}

	// Lost the race or the row was never pending. Re-read and classify.
	current, err := q.notifications.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "load notification", Err: err}
	}
	return classifyMiss(current, id, newStatus)
}

// classifyMiss decides what a failed conditional transition means from the
// re-read row: gone, already where we wanted it, or resolved differently.
func classifyMiss(current *domain.DuplicateNotification, id uuid.UUID, newStatus string) (*domain.DuplicateNotification, error) {
	if current == nil {
		return nil, &domain.NotFoundError{Resource: "notification", ID: id}
	}
	if current.Status == newStatus {
		return current, nil
	}
	return nil, &domain.ConflictError{NotificationID: id, Current: current.Status, Requested: newStatus}
}

func (q *Queue) reload(ctx context.Context, accountID, id uuid.UUID) (*domain.DuplicateNotification, error) {
	n, err := q.notifications.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "load notification", Err: err}
	}
	if n == nil {
		return nil, &domain.NotFoundError{Resource: "notification", ID: id}
	}
	return n, nil
}
