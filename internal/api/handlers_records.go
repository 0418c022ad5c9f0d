package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/metrics"
	"github.com/terraincognita07/habitdiary/internal/services"
)

func (handler *Handler) CheckEntryExists(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseDay(c.Query("date"), handler.location)
	if err != nil {
		return handler.writeServiceError(c, err, "failed to check entry")
	}

	admission, err := handler.diaryService.CheckExisting(c.UserContext(), user.ID, day)
	if err != nil {
		return handler.writeServiceError(c, err, "failed to check entry")
	}
	return c.JSON(admission)
}

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload diaryEntryPayload
	if err := parseJSONBody(c, &payload); err != nil {
		handler.metrics.RecordAdmission(metrics.OutcomeRejected)
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	day, err := services.ParseDay(payload.Date, handler.location)
	if err != nil {
		handler.metrics.RecordAdmission(metrics.OutcomeRejected)
		return handler.writeServiceError(c, err, "failed to create entry")
	}

	praises := praiseTexts(payload.Praises)
	if err := services.ValidatePraiseCount(praises); err != nil {
		handler.metrics.RecordAdmission(metrics.OutcomeRejected)
		return handler.writeServiceError(c, err, "failed to create entry")
	}

	entry, err := handler.diaryService.CreateEntry(c.UserContext(), user.ID, day, services.DiaryEntryInput{
		Reflection:      payload.Reflection,
		AdditionalNotes: payload.AdditionalNotes,
		Praises:         praises,
	})
	if err != nil {
		handler.metrics.RecordAdmission(admissionOutcome(err))
		return handler.writeServiceError(c, err, "failed to create entry")
	}

	handler.metrics.RecordAdmission(metrics.OutcomeCreated)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entry, err := handler.diaryService.GetEntry(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return handler.writeServiceError(c, err, "failed to load entry")
	}
	return c.JSON(entry)
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload diaryEntryUpdatePayload
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	update := services.DiaryEntryUpdate{
		Reflection:      payload.Reflection,
		AdditionalNotes: payload.AdditionalNotes,
	}
	if payload.Praises != nil {
		update.Praises = praiseTexts(*payload.Praises)
		if err := services.ValidatePraiseCount(update.Praises); err != nil {
			return handler.writeServiceError(c, err, "failed to update entry")
		}
	}

	entry, err := handler.diaryService.UpdateEntry(c.UserContext(), user.ID, c.Params("id"), update)
	if err != nil {
		return handler.writeServiceError(c, err, "failed to update entry")
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.diaryService.DeleteEntry(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return handler.writeServiceError(c, err, "failed to delete entry")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func admissionOutcome(err error) string {
	switch {
	case errors.Is(err, services.ErrDuplicateEntry):
		return metrics.OutcomeDuplicate
	case errors.Is(err, services.ErrValidation):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
