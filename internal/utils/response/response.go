package response

import (
	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
	"github.com/tuantrunglc/ecom-backend-api/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Body is the envelope every endpoint returns.
type Body struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message,omitempty"`
	Data          interface{}         `json:"data,omitempty"`
	Errors        map[string][]string `json:"errors,omitempty"`
	CorrelationID string              `json:"correlation_id,omitempty"`
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Body{Success: true, Message: message, Data: data})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Body{Success: true, Message: message, Data: data})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Body{
		Success:       false,
		Message:       message,
		CorrelationID: logger.RequestID(c.UserContext()),
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindInvalidState:
		return fiber.StatusBadRequest
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError writes the response for a service error. Internal errors are
// logged with their cause and reported to the client by correlation id
// only.
func FromError(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()
	de, ok := apperrors.As(err)
	if !ok {
		de = apperrors.Internal(err)
	}

	status := StatusFor(de.Kind)
	if status == fiber.StatusInternalServerError {
		logger.Error(ctx, "request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	message := de.Message
	if de.Kind == apperrors.KindValidation {
		message = "invalid data"
	}

	return c.Status(status).JSON(Body{
		Success:       false,
		Message:       message,
		Errors:        de.FieldMap(),
		CorrelationID: logger.RequestID(ctx),
	})
}
