package services

import (
	"errors"
	"testing"
	"time"
)

func TestParseDayReturnsMidnightUTC(t *testing.T) {
	day, err := ParseDay(" 2026-02-17 ")
	if err != nil {
		t.Fatalf("ParseDay() unexpected error: %v", err)
	}
	want := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Fatalf("expected %s, got %s", want, day)
	}
}

func TestParseDayRejectsInvalidValue(t *testing.T) {
	for _, raw := range []string{"", "2026-02-30", "17.02.2026", "2026-2-7"} {
		if _, err := ParseDay(raw); !errors.Is(err, ErrDayInvalid) {
			t.Fatalf("ParseDay(%q) expected ErrDayInvalid, got %v", raw, err)
		}
	}
}

func TestTodayInTimezoneUsesProfileZone(t *testing.T) {
	now := time.Date(2026, time.March, 1, 3, 30, 0, 0, time.UTC)

	got := TodayInTimezone(now, "America/New_York")
	if FormatDay(got) != "2026-02-28" {
		t.Fatalf("expected 2026-02-28 in New York, got %s", FormatDay(got))
	}
	if FormatDay(TodayInTimezone(now, "")) != "2026-03-01" {
		t.Fatalf("expected empty timezone to resolve as UTC")
	}
	if FormatDay(TodayInTimezone(now, "Mars/Olympus")) != "2026-03-01" {
		t.Fatalf("expected unknown timezone to fall back to UTC")
	}
}

func TestDayRangeSpansOneDay(t *testing.T) {
	location := time.FixedZone("UTC+3", 3*60*60)
	start, end := DayRange(time.Date(2026, time.February, 17, 22, 15, 0, 0, time.UTC), location)
	if start.Format(dayLayout) != "2026-02-18" {
		t.Fatalf("expected localized start day 2026-02-18, got %s", start.Format(dayLayout))
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("expected one day range, got %s", end.Sub(start))
	}
}

func TestRemoveUintDropsEveryMatch(t *testing.T) {
	got := RemoveUint([]uint{1, 2, 1, 3}, 1)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected result: %#v", got)
	}
}
