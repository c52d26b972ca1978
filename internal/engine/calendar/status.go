// Package calendar classifies one (participant, day) cell into the single
// display state the month view renders. Pure; all inputs are snapshots.
package calendar

import (
	"time"

	engperiod "habitClashAPI/internal/engine/period"
	"habitClashAPI/internal/types/calendar"
	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/task"
)

type DayInput struct {
	Day   time.Time
	Today time.Time

	ChallengeStart time.Time
	ChallengeEnd   time.Time

	// Entry is the day's daily entry, nil when none exists.
	Entry *entry.DailyEntry

	// Completions is the participant's full periodic completion set; rows
	// whose period key does not contain Day are simply ignored.
	Completions []*entry.PeriodicCompletion

	DailyTasks   []*task.Task
	WeeklyTasks  []*task.Task
	MonthlyTasks []*task.Task
}

// ResolveDayStatus runs the first-match decision ladder. Every input
// combination lands on exactly one of the eight states.
func ResolveDayStatus(in DayInput) calendar.DayStatus {
	day := engperiod.DateOnly(in.Day)
	today := engperiod.DateOnly(in.Today)

	// Days outside the challenge window, or beyond today, render inert.
	upper := engperiod.DateOnly(in.ChallengeEnd)
	if upper.After(today) {
		upper = today
	}
	if day.Before(engperiod.DateOnly(in.ChallengeStart)) || day.After(upper) {
		return calendar.StatusOutside
	}

	weeklyDone := periodDone(in.WeeklyTasks, in.Completions, engperiod.CurrentWeek(day).Key)
	monthlyDone := periodDone(in.MonthlyTasks, in.Completions, engperiod.CurrentMonth(day).Key)

	if len(in.DailyTasks) > 0 {
		return resolveDaily(in, day, today, weeklyDone, monthlyDone)
	}
	return resolvePeriodOnly(in, day, today, weeklyDone, monthlyDone)
}

func resolveDaily(in DayInput, day, today time.Time, weeklyDone, monthlyDone bool) calendar.DayStatus {
	e := in.Entry

	if e != nil && e.IsCompleted {
		// Late is a pure calendar-date comparison: a 1am save for
		// yesterday is late no matter how soon after midnight it came.
		if engperiod.DaysBetween(e.SubmittedAt, e.EntryDate) > 0 {
			return calendar.StatusLate
		}
		if weeklyDone && monthlyDone {
			return calendar.StatusAllComplete
		}
		return calendar.StatusCompleted
	}

	if e != nil {
		return calendar.StatusPartial
	}

	if day.Equal(today) {
		return calendar.StatusToday
	}
	return calendar.StatusMissed
}

func resolvePeriodOnly(in DayInput, day, today time.Time, weeklyDone, monthlyDone bool) calendar.DayStatus {
	hasWeekly := len(in.WeeklyTasks) > 0
	hasMonthly := len(in.MonthlyTasks) > 0

	if !hasWeekly && !hasMonthly {
		return calendar.StatusOutside
	}

	if weeklyDone && monthlyDone {
		return calendar.StatusAllComplete
	}
	if (hasWeekly && weeklyDone) || (hasMonthly && monthlyDone) {
		return calendar.StatusCompleted
	}

	// An outstanding frequency whose period already closed is a miss.
	if hasWeekly && !weeklyDone && engperiod.IsEnded(engperiod.CurrentWeek(day), in.Today) {
		return calendar.StatusMissed
	}
	if hasMonthly && !monthlyDone && engperiod.IsEnded(engperiod.CurrentMonth(day), in.Today) {
		return calendar.StatusMissed
	}

	return calendar.StatusPeriodPending
}

// periodDone reports whether every task in the list has a completion keyed
// to the given period. Vacuously true with no tasks.
func periodDone(tasks []*task.Task, completions []*entry.PeriodicCompletion, key string) bool {
	for _, t := range tasks {
		found := false
		for _, c := range completions {
			if c.TaskID == t.ID && c.PeriodStart == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
