package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{
		"user_id":       viewer.Subject.UserID,
		"actor_id":      viewer.Actor.UserID,
		"impersonating": viewer.Impersonating(),
		"is_admin":      services.IsAdminProfile(viewer.Actor),
		"tier":          viewer.Subject.AccountTier,
		"limits":        services.LimitsForProfile(viewer.Subject),
	})
}
