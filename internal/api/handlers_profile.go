package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(viewer.Subject)
}

// UpdateProfile applies a partial update. account_tier and is_admin are not
// part of services.ProfileUpdate and are dropped while decoding.
func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var update services.ProfileUpdate
	if err := parseJSONBody(c, &update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := handler.profiles.Update(viewer.Subject.UserID, update)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}
