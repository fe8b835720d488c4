package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
	"github.com/tuantrunglc/ecom-backend-api/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantFields bool
	}{
		{"validation", apperrors.Validation([]apperrors.FieldError{{Field: "amount", Message: "amount is required"}}), 422, "invalid data", true},
		{"not found", apperrors.NotFound("deposit request not found"), 404, "deposit request not found", false},
		{"invalid state", apperrors.InvalidState("deposit already processed"), 400, "deposit already processed", false},
		{"forbidden", apperrors.Forbidden("access denied"), 403, "access denied", false},
		{"internal hides cause", apperrors.Internal(errors.New("pq: connection refused")), 500, "internal error", false},
		{"unclassified", errors.New("boom"), 500, "internal error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				c.SetUserContext(logger.WithRequestID(c.UserContext(), "req-1"))
				return FromError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body Body
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, "req-1", body.CorrelationID)
			assert.Equal(t, tt.wantFields, body.Errors != nil)
		})
	}
}

func TestCreated(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return Created(c, "created", fiber.Map{"id": "DEP_1_1"})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "errors")
}
