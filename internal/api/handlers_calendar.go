package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemark/internal/services"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	now := handler.now()
	month, err := parseMonthQuery(c.Query("month"), now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	ctx := c.UserContext()
	_, gridStart, gridEnd := services.CalendarGrid(month)
	records, err := handler.store.GetByDateRange(ctx, gridStart, gridEnd)
	if err != nil {
		handler.logger.WithError(err).Error("fetch calendar records failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch calendar")
	}
	history, err := handler.history.Load(ctx)
	if err != nil {
		handler.logger.WithError(err).Error("load cycle history failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch calendar")
	}

	days := services.BuildCalendarDayStates(month, records, history, handler.session.State(), now, handler.location)
	return c.JSON(fiber.Map{
		"month": month.Format("2006-01"),
		"days":  newCalendarDayViews(days),
	})
}
