package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetRecords(c *fiber.Ctx) error {
	from, to, message := parseRangeQuery(c.Query("from"), c.Query("to"))
	if message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	records, err := handler.store.GetByDateRange(c.UserContext(), from, to)
	if err != nil {
		handler.logger.WithError(err).Error("fetch period records failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch records")
	}
	return c.JSON(NewRecordViews(records))
}

func (handler *Handler) DeleteAllRecords(c *fiber.Ctx) error {
	if err := handler.clicks.DeleteAll(c.UserContext()); err != nil {
		handler.logger.WithError(err).Error("delete all period records failed")
		return periodPersistenceAPIError(c, err)
	}
	handler.session.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}
