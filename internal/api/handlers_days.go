package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

type dayRequest struct {
	Answers []services.DayAnswerInput `json:"answers"`
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := services.ParseDay(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	view, err := handler.days.LoadDay(viewer.Subject.UserID, day)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) SaveDay(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := services.ParseDay(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	var request dayRequest
	if err := parseJSONBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	view, err := handler.days.SaveDay(viewer.Subject, day, request.Answers, handler.now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) DeleteDay(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := services.ParseDay(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	deleted, err := handler.days.DeleteDay(viewer.Subject.UserID, day)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
