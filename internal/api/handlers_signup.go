package api

import "github.com/gofiber/fiber/v2"

// Signup creates the local user behind a verified bearer credential. Calling
// it again for the same subject returns the stored user with 200.
func (handler *Handler) Signup(c *fiber.Ctx) error {
	user, created, err := handler.identityService.Register(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return handler.writeServiceError(c, err, "failed to register user")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
		handler.logger.Info("user registered", "user", user.ID)
	}
	return c.Status(status).JSON(fiber.Map{"id": user.ID, "created": created})
}
