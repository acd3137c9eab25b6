package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/services"
)

var (
	errMissingBearerToken = errors.New("missing bearer token")
	errInvalidAccessToken = errors.New("invalid access token")
)

// accessClaims is the subset of the hosted auth provider's access token the
// service relies on: the subject is the user id.
type accessClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func bearerToken(c *fiber.Ctx) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMissingBearerToken
	}
	return token, nil
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (uuid.UUID, error) {
	rawToken, err := bearerToken(c)
	if err != nil {
		return uuid.Nil, err
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (any, error) {
		return handler.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(handler.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, errInvalidAccessToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errInvalidAccessToken
	}
	return userID, nil
}

// AuthRequired resolves the caller's profile and, for admins holding a
// valid impersonation cookie, the profile they are viewing as.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	actor, err := handler.profiles.Load(userID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	viewer := services.NewViewer(actor)
	if subject, ok := handler.impersonatedSubject(c, actor); ok {
		viewer.Subject = subject
	}
	c.Locals(contextViewerKey, viewer)

	if !viewer.CanMutate() && isMutatingMethod(c.Method()) && !isStopImpersonationRequest(c) {
		return apiError(c, fiber.StatusForbidden, services.ErrViewerReadOnly.Error())
	}
	return c.Next()
}

func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !services.IsAdminProfile(viewer.Actor) {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}

func isMutatingMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return false
	default:
		return true
	}
}

func isStopImpersonationRequest(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodDelete && strings.TrimRight(c.Path(), "/") == impersonatePath
}
