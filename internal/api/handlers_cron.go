package api

import (
	"crypto/subtle"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

// CronReminders is the scheduler entry point. The shared secret is checked
// before any work. Only mismatches are throttled, so a caller holding the
// secret is never locked out by someone else guessing.
func (handler *Handler) CronReminders(c *fiber.Ctx) error {
	if handler.cronSecret == "" {
		log.Printf("cron: CRON_SECRET is not configured")
		return apiError(c, fiber.StatusInternalServerError, "cron secret is not configured")
	}

	now := handler.now()
	token, err := bearerToken(c)
	if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(handler.cronSecret)) != 1 {
		limiterKey := requestLimiterKey(c)
		if handler.cronLimiter.blocked(limiterKey, now) {
			return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
		}
		handler.cronLimiter.fail(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	handler.cronLimiter.reset(requestLimiterKey(c))

	summary, err := handler.dispatcher.Dispatch(c.UserContext(), now)
	if err != nil {
		if errors.Is(err, services.ErrPushCredentialsMissing) {
			return apiError(c, fiber.StatusInternalServerError, "push credentials are not configured")
		}
		log.Printf("cron: dispatch failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to dispatch reminders")
	}
	return c.JSON(summary)
}
