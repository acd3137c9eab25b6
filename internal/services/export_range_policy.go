package services

import (
	"errors"
	"strings"
	"time"
)

const defaultTrendWindowDays = 30

var (
	ErrRangeFromDateInvalid = errors.New("invalid from date")
	ErrRangeToDateInvalid   = errors.New("invalid to date")
	ErrRangeInvalid         = errors.New("invalid date range")
)

// ParseDateRange reads optional YYYY-MM-DD bounds. Both bounds are inclusive
// calendar dates expressed as midnight UTC.
func ParseDateRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	var from *time.Time
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsedFrom, err := ParseDay(fromRaw)
		if err != nil {
			return nil, nil, ErrRangeFromDateInvalid
		}
		from = &parsedFrom
	}

	var to *time.Time
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsedTo, err := ParseDay(toRaw)
		if err != nil {
			return nil, nil, ErrRangeToDateInvalid
		}
		to = &parsedTo
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrRangeInvalid
	}
	return from, to, nil
}

// ResolveTrendRange fills missing bounds: to defaults to today, from to the
// 30-day window ending at to.
func ResolveTrendRange(rawFrom string, rawTo string, today time.Time) (time.Time, time.Time, error) {
	from, to, err := ParseDateRange(rawFrom, rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	resolvedTo := today
	if to != nil {
		resolvedTo = *to
	}
	resolvedFrom := resolvedTo.AddDate(0, 0, -(defaultTrendWindowDays - 1))
	if from != nil {
		resolvedFrom = *from
	}
	if resolvedTo.Before(resolvedFrom) {
		return time.Time{}, time.Time{}, ErrRangeInvalid
	}
	return resolvedFrom, resolvedTo, nil
}

// RangeEnd turns an inclusive end date into the exclusive bound used by
// repository queries.
func RangeEnd(to *time.Time) *time.Time {
	if to == nil {
		return nil
	}
	end := to.AddDate(0, 0, 1)
	return &end
}
