package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/services"
)

var errInvalidPayload = errors.New("invalid payload")

func parseJSONBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return errInvalidPayload
	}
	if err := c.BodyParser(target); err != nil {
		return errInvalidPayload
	}
	return nil
}

// parseYearMonth reads ?year=&month=, defaulting each missing value to the
// current month in location.
func parseYearMonth(c *fiber.Ctx, today time.Time) (int, int, error) {
	year := today.Year()
	month := int(today.Month())

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, services.ErrInvalidMonth
		}
		year = parsed
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, services.ErrInvalidMonth
		}
		month = parsed
	}
	return year, month, nil
}
