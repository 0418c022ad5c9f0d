package api

import (
	"github.com/gofiber/fiber/v2"
)

// AuthRequired resolves the bearer credential to a local user before any
// dashboard handler runs.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.identityService.Verify(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return handler.writeServiceError(c, err, "failed to authenticate")
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}

// PublicRateLimit throttles unauthenticated routes per client IP and route.
func (handler *Handler) PublicRateLimit(c *fiber.Ctx) error {
	key := c.Route().Path + "|" + requestLimiterKey(c)
	if !handler.publicLimiter.allow(key, handler.now()) {
		c.Set(fiber.HeaderRetryAfter, "60")
		return apiError(c, fiber.StatusTooManyRequests, "too many requests")
	}
	return c.Next()
}
