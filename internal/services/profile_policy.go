package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/bujo/internal/models"
)

const (
	maxDisplayNameLength = 64
	maxPaletteEntries    = 16
)

var (
	ErrProfileReminderTimeInvalid = errors.New("reminder time must be HH:MM on a 5-minute boundary")
	ErrProfileTimezoneInvalid     = errors.New("unknown timezone")
	ErrProfilePaletteInvalid      = errors.New("invalid chart palette")
	ErrProfileChartStyleInvalid   = errors.New("invalid chart style")
	ErrProfileDateFormatInvalid   = errors.New("invalid date format")
	ErrProfileDisplayNameTooLong  = errors.New("display name too long")
	ErrTierPaletteLocked          = errors.New("custom palettes require a higher account tier")
	ErrTierChartStyleLocked       = errors.New("chart style requires a higher account tier")
)

var (
	hexColorPattern    = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	paletteNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)
)

// ValidateReminderTime accepts 24-hour HH:MM values whose minute is a
// multiple of the dispatch window.
func ValidateReminderTime(raw string) error {
	_, minute, ok := ParseReminderTime(raw)
	if !ok || minute%ReminderWindowMinutes != 0 {
		return ErrProfileReminderTimeInvalid
	}
	return nil
}

func ValidateTimezone(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ErrProfileTimezoneInvalid
	}
	if _, err := LoadTimezone(name); err != nil {
		return ErrProfileTimezoneInvalid
	}
	return nil
}

func IsHexColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

func ValidatePalette(palette models.ChartPalette) error {
	if len(palette) > maxPaletteEntries {
		return ErrProfilePaletteInvalid
	}
	for name, color := range palette {
		if !paletteNamePattern.MatchString(name) || !IsHexColor(color) {
			return ErrProfilePaletteInvalid
		}
	}
	return nil
}

func IsChartStyle(value string) bool {
	switch value {
	case models.ChartStyleGradient, models.ChartStyleBrush, models.ChartStyleSolid:
		return true
	default:
		return false
	}
}

func IsDateFormat(value string) bool {
	switch value {
	case models.DateFormatISO, models.DateFormatDayFirst, models.DateFormatUS, models.DateFormatDotted:
		return true
	default:
		return false
	}
}

func NormalizeDisplayName(raw string) (string, error) {
	displayName := strings.TrimSpace(raw)
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return "", ErrProfileDisplayNameTooLong
	}
	return displayName, nil
}
