package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemark/internal/services"
)

// ClickDay feeds one calendar click into the owner's period session.
func (handler *Handler) ClickDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	result, err := handler.session.Click(c.UserContext(), day)
	switch {
	case err == nil:
		return c.JSON(NewClickView(result))
	case errors.Is(err, services.ErrClickBeforePendingStart):
		view := NewClickView(result)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":         "click precedes pending period start",
			"action":        view.Action,
			"pending_start": view.PendingStart,
		})
	default:
		handler.logger.WithError(err).WithField("date", c.Params("date")).Error("period click failed")
		return periodPersistenceAPIError(c, err)
	}
}

func (handler *Handler) GetClickState(c *fiber.Ctx) error {
	return c.JSON(NewClickView(services.ClickResult{State: handler.session.State()}))
}

func (handler *Handler) ResetClickState(c *fiber.Ctx) error {
	handler.session.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}
