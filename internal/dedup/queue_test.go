package dedup

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatusRejectsNonTerminalStatus(t *testing.T) {
	q := NewQueue(nil)

	_, err := q.SetStatus(context.Background(), uuid.New(), uuid.New(), domain.NotificationStatusPending, nil)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = q.SetStatus(context.Background(), uuid.New(), uuid.New(), "resolved", nil)
	require.ErrorAs(t, err, &validation)
}

func TestClassifyMissUnknownNotification(t *testing.T) {
	id := uuid.New()

	n, err := classifyMiss(nil, id, domain.NotificationStatusMerged)
	assert.Nil(t, n)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, id, notFound.ID)
}

func TestClassifyMissIdempotentRepeat(t *testing.T) {
	id := uuid.New()
	current := &domain.DuplicateNotification{ID: id, Status: domain.NotificationStatusIgnored}

	n, err := classifyMiss(current, id, domain.NotificationStatusIgnored)
	require.NoError(t, err)
	assert.Equal(t, current, n)
}

func TestClassifyMissConflictCarriesCurrentStatus(t *testing.T) {
	id := uuid.New()
	current := &domain.DuplicateNotification{ID: id, Status: domain.NotificationStatusReviewed}

	n, err := classifyMiss(current, id, domain.NotificationStatusMerged)
	assert.Nil(t, n)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.NotificationStatusReviewed, conflict.Current)
	assert.Equal(t, domain.NotificationStatusMerged, conflict.Requested)
	assert.Equal(t, id, conflict.NotificationID)
}
