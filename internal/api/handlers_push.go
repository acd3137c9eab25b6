package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (handler *Handler) VAPIDPublicKey(c *fiber.Ctx) error {
	if handler.vapidPublicKey == "" {
		return apiError(c, fiber.StatusNotFound, "push is not configured")
	}
	return c.JSON(fiber.Map{"public_key": handler.vapidPublicKey})
}

func (handler *Handler) ListPushSubscriptions(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	subscriptions, err := handler.subscriptions.List(viewer.Subject.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(subscriptions)
}

func (handler *Handler) SubscribePush(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.PushSubscriptionInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if input.UserAgent == "" {
		input.UserAgent = c.Get(fiber.HeaderUserAgent)
	}

	subscription, err := handler.subscriptions.Subscribe(viewer.Subject.UserID, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(subscription)
}

func (handler *Handler) UnsubscribePush(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var request unsubscribeRequest
	if err := parseJSONBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := handler.subscriptions.Unsubscribe(viewer.Subject.UserID, request.Endpoint); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
