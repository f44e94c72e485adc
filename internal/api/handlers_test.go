package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestRespondErrorValidation(t *testing.T) {
	app := errorApp(&domain.ValidationError{Field: "strategy", Message: "unknown strategy"})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "strategy")
}

func TestRespondErrorNotFound(t *testing.T) {
	app := errorApp(&domain.NotFoundError{Resource: "lead", ID: uuid.New()})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRespondErrorConflictCarriesCurrentStatus(t *testing.T) {
	app := errorApp(&domain.ConflictError{
		NotificationID: uuid.New(),
		Current:        domain.NotificationStatusIgnored,
		Requested:      domain.NotificationStatusMerged,
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, domain.NotificationStatusIgnored, payload["current_status"])
}

func TestRespondErrorStorageHidesCause(t *testing.T) {
	app := errorApp(&domain.StorageError{Op: "create lead", Err: errors.New("connection refused to 10.0.0.3")})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "storage failure, please retry", payload["error"])
}

func TestRespondErrorWrappedTaxonomy(t *testing.T) {
	conflict := &domain.ConflictError{NotificationID: uuid.New(), Current: domain.NotificationStatusMerged, Requested: domain.NotificationStatusIgnored}
	app := errorApp(fmt.Errorf("resolve: %w", conflict))

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestParseIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/leads/:id", func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "id": id.String()})
	})

	valid := uuid.New()
	resp, err := app.Test(httptest.NewRequest("GET", "/leads/"+valid.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/leads/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
