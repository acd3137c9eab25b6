package services

import (
	"errors"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var ErrDayInvalid = errors.New("invalid day")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay reads a YYYY-MM-DD calendar date. Answers are keyed by calendar
// date, so the result is midnight UTC of that date regardless of timezone.
func ParseDay(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, ErrDayInvalid
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	return value.UTC().Format(dayLayout)
}

// TodayInTimezone returns the calendar date at now in the named zone as
// midnight UTC of that date. Unknown zones fall back to UTC.
func TodayInTimezone(now time.Time, timezone string) time.Time {
	location, err := LoadTimezone(timezone)
	if err != nil {
		location = time.UTC
	}
	year, month, day := now.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func LoadTimezone(timezone string) (*time.Location, error) {
	name := strings.TrimSpace(timezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

func RemoveUint(values []uint, needle uint) []uint {
	filtered := make([]uint, 0, len(values))
	for _, value := range values {
		if value != needle {
			filtered = append(filtered, value)
		}
	}
	return filtered
}
