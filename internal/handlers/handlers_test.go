package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"number", `500000`, "500000"},
		{"decimal number", `10000.50`, "10000.50"},
		{"string", `"25000"`, "25000"},
		{"exponent kept verbatim", `1e5`, "1e5"},
		{"null", `null`, ""},
		{"missing", ``, ""},
		{"garbage string", `"abc"`, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rawAmount(json.RawMessage(tt.raw)))
		})
	}
}

func TestActorFromClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if _, ok := actorFromClaims(c); ok {
			return c.SendString("unexpected")
		}
		c.Locals(utils.ClaimsKey, &models.UserClaims{UserID: 7, Role: models.RoleAdmin})
		actor, ok := actorFromClaims(c)
		if !ok || actor.UserID != 7 || !actor.IsAdmin {
			return c.SendString("wrong actor")
		}
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "ok", string(buf[:n]))
}

func TestHealthCheck(t *testing.T) {
	up := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		database Pinger
		redis    Pinger
		code     int
		status   string
		redisSt  string
	}{
		{"all up", up, up, fiber.StatusOK, "ok", "connected"},
		{"redis disabled", up, nil, fiber.StatusOK, "ok", "disabled"},
		{"redis down", up, down, fiber.StatusServiceUnavailable, "degraded", "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler(tt.database, tt.redis, "test").HealthCheck)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)

			var body struct {
				Status   string            `json:"status"`
				Version  string            `json:"version"`
				Services map[string]string `json:"services"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "test", body.Version)
			assert.Equal(t, "connected", body.Services["database"])
			assert.Equal(t, tt.redisSt, body.Services["redis"])
		})
	}
}
