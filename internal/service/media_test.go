package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A deployment without MinIO leaves the store nil. Object operations must
// report that instead of crashing.
func TestMediaServiceWithoutStore(t *testing.T) {
	svc := &MediaService{}
	ctx := context.Background()
	accountID := uuid.New()

	var validation *domain.ValidationError

	media, err := svc.Upload(ctx, accountID, nil, nil, "photo.png", "image/png", []byte("data"))
	assert.Nil(t, media)
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "storage", validation.Field)

	url, err := svc.PresignUpload(ctx, accountID, "photo.png")
	assert.Empty(t, url)
	require.ErrorAs(t, err, &validation)

	data, contentType, err := svc.GetFile(ctx, "uploads/photo.png")
	assert.Nil(t, data)
	assert.Empty(t, contentType)
	require.ErrorAs(t, err, &validation)
}
