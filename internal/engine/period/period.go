// Package period computes calendar week/month windows for recurring tasks.
// Everything here is pure: "now" is always an argument, never read from the
// system clock.
package period

import (
	"fmt"
	"math"
	"time"

	"habitClashAPI/internal/types/period"
	"habitClashAPI/internal/types/task"
)

const isoDate = "2006-01-02"

// ParseLocalDate parses a YYYY-MM-DD string as a wall-clock date in loc.
// Parsing as UTC and converting later shifts the day for anyone west of
// Greenwich, so entry dates must always come through here.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(isoDate, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole-day difference a-b on the calendar,
// ignoring time of day. Rounding absorbs DST-shortened or -lengthened days.
func DaysBetween(a, b time.Time) int {
	da := DateOnly(a)
	db := DateOnly(b)
	return int(math.Round(da.Sub(db).Hours() / 24))
}

// CurrentWeek returns the Monday-start week containing d.
func CurrentWeek(d time.Time) period.Period {
	day := DateOnly(d)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)

	return period.Period{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2")),
		Key:   start.Format(isoDate),
	}
}

// CurrentMonth returns the calendar month containing d.
func CurrentMonth(d time.Time) period.Period {
	day := DateOnly(d)
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 1, -1)

	return period.Period{
		Start: start,
		End:   end,
		Label: start.Format("January 2006"),
		Key:   start.Format(isoDate),
	}
}

// For resolves the period containing d for a recurring frequency. Daily and
// onetime tasks have no period; ok is false for those.
func For(freq task.Frequency, d time.Time) (period.Period, bool) {
	switch freq {
	case task.FrequencyWeekly:
		return CurrentWeek(d), true
	case task.FrequencyMonthly:
		return CurrentMonth(d), true
	default:
		return period.Period{}, false
	}
}

// endBoundary is the first instant after the period: midnight following End.
func endBoundary(p period.Period) time.Time {
	return DateOnly(p.End).AddDate(0, 0, 1)
}

// IsEnded reports whether now is past the end of day of p.End.
func IsEnded(p period.Period, now time.Time) bool {
	return !now.Before(endBoundary(p))
}

// DueStatus classifies how urgent p is at the given instant. DaysRemaining
// counts partial days: a period ending today has 1 day remaining, an ended
// one has 0.
func DueStatus(p period.Period, now time.Time) period.DueStatus {
	boundary := endBoundary(p)

	remaining := boundary.Sub(now)
	daysRemaining := int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	var state period.DueState
	switch {
	case IsEnded(p, now):
		state = period.DueEnded
		daysRemaining = 0
	case daysRemaining <= 1:
		state = period.DueToday
	case daysRemaining <= 2:
		state = period.DueSoon
	default:
		state = period.DueUpcoming
	}

	return period.DueStatus{State: state, DaysRemaining: daysRemaining}
}
