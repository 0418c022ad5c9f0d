package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	year, month, err := parseYearMonth(c, handler.diaryService.Today())
	if err != nil {
		return handler.writeServiceError(c, err, "failed to load calendar")
	}

	view, err := handler.diaryService.Calendar(c.UserContext(), user.ID, year, month)
	if err != nil {
		return handler.writeServiceError(c, err, "failed to load calendar")
	}
	return c.JSON(view)
}

func (handler *Handler) GetHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entries, err := handler.diaryService.ListHistory(c.UserContext(), user.ID)
	if err != nil {
		return handler.writeServiceError(c, err, "failed to load history")
	}
	return c.JSON(fiber.Map{"entries": entries})
}
