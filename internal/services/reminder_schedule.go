package services

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ReminderWindowMinutes matches the cron cadence: a reminder fires on the
// first run at or after its local time.
const ReminderWindowMinutes = 5

var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

func ParseReminderTime(raw string) (int, int, bool) {
	match := reminderTimePattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, 0, false
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	return hour, minute, true
}

// IsReminderDue reports whether localMinutes falls inside
// [reminderMinutes, reminderMinutes+5). The window does not wrap midnight.
func IsReminderDue(localMinutes int, reminderMinutes int) bool {
	diff := localMinutes - reminderMinutes
	return diff >= 0 && diff < ReminderWindowMinutes
}

// LocalMinutes returns minutes since local midnight at now in timezone.
// An empty timezone means UTC.
func LocalMinutes(now time.Time, timezone string) (int, error) {
	location, err := LoadTimezone(timezone)
	if err != nil {
		return 0, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	local := now.In(location)
	return local.Hour()*60 + local.Minute(), nil
}
