package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bujo/internal/services"
)

const contextViewerKey = "viewer"

var (
	badRequestErrors = []error{
		services.ErrDayInvalid,
		services.ErrDayInFuture,
		services.ErrDayQuestionUnknown,
		services.ErrDayAnswerDuplicate,
		services.ErrAnswerValueInvalid,
		services.ErrRangeFromDateInvalid,
		services.ErrRangeToDateInvalid,
		services.ErrRangeInvalid,
		services.ErrProfileReminderTimeInvalid,
		services.ErrProfileTimezoneInvalid,
		services.ErrProfilePaletteInvalid,
		services.ErrProfileChartStyleInvalid,
		services.ErrProfileDateFormatInvalid,
		services.ErrProfileDisplayNameTooLong,
		services.ErrAccountTierInvalid,
		services.ErrPushEndpointInvalid,
		services.ErrPushKeysMissing,
		services.ErrCategoryNameInvalid,
		services.ErrCategoryColorInvalid,
		services.ErrAnswerTypeNameInvalid,
		services.ErrAnswerTypeKindInvalid,
		services.ErrAnswerTypeItemsInvalid,
		services.ErrAnswerTypeMetaInvalid,
		services.ErrAnswerTypeDisplayInvalid,
		services.ErrTemplateTitleInvalid,
		services.ErrTemplateMetaInvalid,
		services.ErrQuestionLabelInvalid,
		services.ErrQuestionDisplayInvalid,
		services.ErrQuestionOrderInvalid,
		services.ErrImpersonationSelf,
	}
	notFoundErrors = []error{
		services.ErrPushSubscriptionMissing,
		services.ErrCategoryNotFound,
		services.ErrAnswerTypeNotFound,
		services.ErrTemplateNotFound,
		services.ErrQuestionNotFound,
	}
	forbiddenErrors = []error{
		services.ErrTemplateForbidden,
		services.ErrGlobalTemplateAdmin,
		services.ErrImpersonationForbidden,
		services.ErrViewerReadOnly,
		services.ErrTierPaletteLocked,
		services.ErrTierChartStyleLocked,
		services.ErrTierTemplateLimit,
		services.ErrTierQuestionLimit,
	}
	conflictErrors = []error{
		services.ErrCategoryNameTaken,
		services.ErrAnswerTypeInUse,
		services.ErrQuestionDuplicate,
	}
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps a service sentinel to its status. Anything else came
// from the store and is passed through as a client error.
func serviceError(c *fiber.Ctx, err error) error {
	return apiError(c, serviceErrorStatus(err), err.Error())
}

func serviceErrorStatus(err error) int {
	switch {
	case matchesAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case matchesAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case matchesAny(err, forbiddenErrors):
		return fiber.StatusForbidden
	case matchesAny(err, conflictErrors):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func currentViewer(c *fiber.Ctx) (services.Viewer, bool) {
	viewer, ok := c.Locals(contextViewerKey).(services.Viewer)
	return viewer, ok
}

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func parseJSONBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return errors.New("request body is required")
	}
	return c.BodyParser(target)
}
