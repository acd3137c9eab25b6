package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

func (handler *Handler) GetTrends(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	today := services.TodayInTimezone(handler.now(), viewer.Subject.Timezone)
	from, to, err := services.ResolveTrendRange(c.Query("from"), c.Query("to"), today)
	if err != nil {
		return serviceError(c, err)
	}

	report, err := handler.stats.BuildTrends(viewer.Subject.UserID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build trends")
	}
	return c.JSON(report)
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	today := services.TodayInTimezone(handler.now(), viewer.Subject.Timezone)
	month, err := services.ParseMonth(c.Query("month"), today)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	calendar, err := handler.stats.BuildCalendar(viewer.Subject.UserID, month)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build calendar")
	}
	return c.JSON(calendar)
}
