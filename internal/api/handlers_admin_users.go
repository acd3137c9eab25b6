package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type tierRequest struct {
	AccountTier *int  `json:"account_tier"`
	IsAdmin     *bool `json:"is_admin"`
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	profiles, err := handler.profiles.List()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profiles)
}

func (handler *Handler) SetUserTier(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil || userID == uuid.Nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var request tierRequest
	if err := parseJSONBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if request.AccountTier == nil {
		return apiError(c, fiber.StatusBadRequest, "account_tier is required")
	}

	profile, err := handler.profiles.SetTier(userID, *request.AccountTier, request.IsAdmin)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}
