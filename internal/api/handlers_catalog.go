package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

func (handler *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := handler.catalog.ListCategories()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(categories)
}

func (handler *Handler) CreateCategory(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := handler.catalog.CreateCategory(input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (handler *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid category id")
	}
	var input services.CategoryInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := handler.catalog.UpdateCategory(id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(category)
}

func (handler *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid category id")
	}
	if err := handler.catalog.DeleteCategory(id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListAnswerTypes(c *fiber.Ctx) error {
	answerTypes, err := handler.catalog.ListAnswerTypes()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(answerTypes)
}

func (handler *Handler) CreateAnswerType(c *fiber.Ctx) error {
	var input services.AnswerTypeInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	answerType, err := handler.catalog.CreateAnswerType(input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(answerType)
}

func (handler *Handler) UpdateAnswerType(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid answer type id")
	}
	var input services.AnswerTypeInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	answerType, err := handler.catalog.UpdateAnswerType(id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(answerType)
}

func (handler *Handler) DeleteAnswerType(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid answer type id")
	}
	if err := handler.catalog.DeleteAnswerType(id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
