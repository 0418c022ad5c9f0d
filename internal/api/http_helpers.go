package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// writeServiceError maps the services error taxonomy onto status codes.
// Anything unclassified is logged and reported with the fallback message.
func (handler *Handler) writeServiceError(c *fiber.Ctx, err error, fallback string) error {
	var duplicate *services.DuplicateEntryError
	var authFailure *services.AuthFailure

	switch {
	case errors.As(err, &duplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    "duplicate entry",
			"entry_id": duplicate.EntryID,
		})
	case errors.As(err, &authFailure):
		if authFailure.Reason == services.AuthReasonUnknownUser {
			return apiError(c, fiber.StatusForbidden, authFailure.Reason)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":  "unauthorized",
			"reason": authFailure.Reason,
		})
	case errors.Is(err, services.ErrValidation):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInquiryQuotaExceeded):
		return apiError(c, fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrConflict):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	default:
		handler.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
		return apiError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (handler *Handler) now() time.Time {
	if handler.clock != nil {
		return handler.clock()
	}
	return time.Now()
}
