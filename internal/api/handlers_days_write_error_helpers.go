package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemark/internal/services"
)

func periodPersistenceAPIError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPeriodLoadFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to load period records")
	case errors.Is(err, services.ErrPeriodDeleteFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to delete period records")
	case errors.Is(err, services.ErrPeriodWriteFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to write period records")
	default:
		return apiError(c, fiber.StatusInternalServerError, "failed to update period records")
	}
}
