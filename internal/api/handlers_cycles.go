package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetCycles(c *fiber.Ctx) error {
	history, err := handler.history.Load(c.UserContext())
	if err != nil {
		handler.logger.WithError(err).Error("load cycle history failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch cycles")
	}
	return c.JSON(NewCyclesView(history))
}
