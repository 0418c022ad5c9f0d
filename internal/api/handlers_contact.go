package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/services"
)

func (handler *Handler) SubmitInquiry(c *fiber.Ctx) error {
	var payload inquiryPayload
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	inquiry, err := handler.inquiryService.Submit(c.UserContext(), services.InquiryInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Message: payload.Message,
	}, requestLimiterKey(c))
	if err != nil {
		return handler.writeServiceError(c, err, "failed to submit inquiry")
	}
	return c.Status(fiber.StatusCreated).JSON(inquiry)
}
