package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

type reorderRequest struct {
	IDs []uint `json:"ids"`
}

func (handler *Handler) ListQuestions(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	questions, err := handler.questions.List(viewer.Subject.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(questions)
}

func (handler *Handler) AddQuestion(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.QuestionInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	question, err := handler.questions.Add(viewer.Subject, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func (handler *Handler) UpdateQuestion(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var update services.QuestionUpdate
	if err := parseJSONBody(c, &update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	question, err := handler.questions.Update(viewer.Subject, id, update)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(question)
}

func (handler *Handler) ReorderQuestions(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var request reorderRequest
	if err := parseJSONBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := handler.questions.Reorder(viewer.Subject.UserID, request.IDs); err != nil {
		return serviceError(c, err)
	}

	questions, err := handler.questions.List(viewer.Subject.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(questions)
}

func (handler *Handler) DeleteQuestion(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid question id")
	}

	if err := handler.questions.Delete(viewer.Subject.UserID, id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
