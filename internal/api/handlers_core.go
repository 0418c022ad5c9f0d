package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/db"
)

const healthTimeout = 2 * time.Second

func (handler *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := db.Ping(ctx, handler.db); err != nil {
		handler.logger.Warn("health check failed", "err", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
