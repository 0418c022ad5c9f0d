package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/services"
)

// GetHabit answers {"habit": null} when the user has not registered one yet.
func (handler *Handler) GetHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	habit, err := handler.habitService.Get(c.UserContext(), user.ID)
	if err != nil {
		return handler.writeServiceError(c, err, "failed to load habit")
	}
	return c.JSON(fiber.Map{"habit": habit})
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload habitPayload
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	habit, err := handler.habitService.Create(c.UserContext(), user.ID, habitInput(payload))
	if err != nil {
		return handler.writeServiceError(c, err, "failed to create habit")
	}
	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (handler *Handler) UpdateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload habitPayload
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	habit, err := handler.habitService.Update(c.UserContext(), user.ID, habitInput(payload))
	if err != nil {
		return handler.writeServiceError(c, err, "failed to update habit")
	}
	return c.JSON(habit)
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.habitService.Delete(c.UserContext(), user.ID); err != nil {
		return handler.writeServiceError(c, err, "failed to delete habit")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func habitInput(payload habitPayload) services.HabitInput {
	return services.HabitInput{
		Name:                     payload.Name,
		SupplementaryDescription: payload.SupplementaryDescription,
	}
}
