package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"github.com/terraincognita07/bujo/internal/services"
)

const (
	impersonationCookieName = "bujo_view_as"
	impersonationPurpose    = "impersonation"
	impersonationTTL        = 8 * time.Hour
	impersonatePath         = "/api/admin/impersonate"
)

type impersonationPayload struct {
	TargetID  uuid.UUID `json:"target_id"`
	ActorID   uuid.UUID `json:"actor_id"`
	ExpiresAt int64     `json:"expires_at"`
}

type impersonateRequest struct {
	UserID string `json:"user_id"`
}

// impersonatedSubject returns the profile the actor is viewing as. A cookie
// that fails to open, belongs to another actor, or outlived its TTL is
// cleared and ignored.
func (handler *Handler) impersonatedSubject(c *fiber.Ctx, actor models.Profile) (models.Profile, bool) {
	rawValue := c.Cookies(impersonationCookieName)
	if rawValue == "" {
		return models.Profile{}, false
	}

	payload, ok := handler.openImpersonationCookie(rawValue)
	if !ok || payload.ActorID != actor.UserID || !services.IsAdminProfile(actor) ||
		handler.now().Unix() >= payload.ExpiresAt {
		handler.clearImpersonationCookie(c)
		return models.Profile{}, false
	}

	subject, err := handler.profiles.Load(payload.TargetID)
	if err != nil {
		return models.Profile{}, false
	}
	return subject, true
}

func (handler *Handler) openImpersonationCookie(rawValue string) (impersonationPayload, bool) {
	plaintext, err := handler.sealer.Open(impersonationPurpose, rawValue)
	if err != nil {
		return impersonationPayload{}, false
	}
	var payload impersonationPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return impersonationPayload{}, false
	}
	return payload, true
}

func (handler *Handler) StartImpersonation(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var request impersonateRequest
	if err := parseJSONBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	targetID, err := uuid.Parse(request.UserID)
	if err != nil || targetID == uuid.Nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if err := services.CanImpersonate(viewer.Actor, targetID); err != nil {
		return serviceError(c, err)
	}

	expiresAt := handler.now().Add(impersonationTTL)
	plaintext, err := json.Marshal(impersonationPayload{
		TargetID:  targetID,
		ActorID:   viewer.Actor.UserID,
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start impersonation")
	}
	sealed, err := handler.sealer.Seal(impersonationPurpose, plaintext)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start impersonation")
	}

	c.Cookie(&fiber.Cookie{
		Name:     impersonationCookieName,
		Value:    sealed,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"user_id":       targetID,
		"actor_id":      viewer.Actor.UserID,
		"impersonating": true,
		"expires_at":    expiresAt.UTC(),
	})
}

func (handler *Handler) StopImpersonation(c *fiber.Ctx) error {
	handler.clearImpersonationCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) clearImpersonationCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     impersonationCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
