package calendar

import (
	"testing"
	"time"

	"habitClashAPI/internal/types/calendar"
	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dailyTask() *task.Task {
	return &task.Task{ID: uuid.New(), Type: task.TypeBoolean, Frequency: task.FrequencyDaily, Points: 1}
}

func weeklyTask() *task.Task {
	return &task.Task{ID: uuid.New(), Type: task.TypeBoolean, Frequency: task.FrequencyWeekly, Points: 1}
}

func monthlyTask() *task.Task {
	return &task.Task{ID: uuid.New(), Type: task.TypeBoolean, Frequency: task.FrequencyMonthly, Points: 1}
}

func baseInput(day, today time.Time) DayInput {
	return DayInput{
		Day:            day,
		Today:          today,
		ChallengeStart: date(2024, time.March, 1),
		ChallengeEnd:   date(2024, time.March, 31),
	}
}

func completion(t *task.Task, key string) *entry.PeriodicCompletion {
	return &entry.PeriodicCompletion{
		ID:          uuid.New(),
		TaskID:      t.ID,
		Frequency:   t.Frequency,
		PeriodStart: key,
	}
}

func TestOutsideWindow(t *testing.T) {
	today := date(2024, time.March, 15)

	in := baseInput(date(2024, time.February, 28), today)
	in.DailyTasks = []*task.Task{dailyTask()}
	if got := ResolveDayStatus(in); got != calendar.StatusOutside {
		t.Errorf("before start = %v, want outside", got)
	}

	in = baseInput(date(2024, time.March, 16), today)
	in.DailyTasks = []*task.Task{dailyTask()}
	if got := ResolveDayStatus(in); got != calendar.StatusOutside {
		t.Errorf("future day = %v, want outside", got)
	}

	in = baseInput(date(2024, time.April, 2), date(2024, time.May, 1))
	in.DailyTasks = []*task.Task{dailyTask()}
	if got := ResolveDayStatus(in); got != calendar.StatusOutside {
		t.Errorf("after challenge end = %v, want outside", got)
	}
}

// Scenario D: entry for 2024-03-01 submitted 2024-03-02T01:00.
func TestLateByCalendarDateOnly(t *testing.T) {
	day := date(2024, time.March, 1)
	in := baseInput(day, date(2024, time.March, 15))
	in.DailyTasks = []*task.Task{dailyTask()}
	in.Entry = &entry.DailyEntry{
		EntryDate:   day,
		IsCompleted: true,
		SubmittedAt: time.Date(2024, time.March, 2, 1, 0, 0, 0, time.UTC),
	}

	if got := ResolveDayStatus(in); got != calendar.StatusLate {
		t.Errorf("status = %v, want late (1am next day is late despite being within 24h)", got)
	}
}

func TestCompletedSameDayNotLate(t *testing.T) {
	day := date(2024, time.March, 1)
	in := baseInput(day, date(2024, time.March, 15))
	in.DailyTasks = []*task.Task{dailyTask()}
	in.WeeklyTasks = []*task.Task{weeklyTask()} // incomplete -> plain completed
	in.Entry = &entry.DailyEntry{
		EntryDate:   day,
		IsCompleted: true,
		SubmittedAt: time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC),
	}

	if got := ResolveDayStatus(in); got != calendar.StatusCompleted {
		t.Errorf("status = %v, want completed", got)
	}
}

func TestAllCompleteNeedsEveryPeriodDone(t *testing.T) {
	day := date(2024, time.March, 6) // week of Mar 4
	wt := weeklyTask()
	mt := monthlyTask()

	in := baseInput(day, date(2024, time.March, 15))
	in.DailyTasks = []*task.Task{dailyTask()}
	in.WeeklyTasks = []*task.Task{wt}
	in.MonthlyTasks = []*task.Task{mt}
	in.Entry = &entry.DailyEntry{EntryDate: day, IsCompleted: true, SubmittedAt: day}
	in.Completions = []*entry.PeriodicCompletion{
		completion(wt, "2024-03-04"),
		completion(mt, "2024-03-01"),
	}

	if got := ResolveDayStatus(in); got != calendar.StatusAllComplete {
		t.Errorf("status = %v, want all_complete", got)
	}

	// Drop the monthly completion: only completed.
	in.Completions = in.Completions[:1]
	if got := ResolveDayStatus(in); got != calendar.StatusCompleted {
		t.Errorf("status = %v, want completed", got)
	}
}

func TestPartialTodayAndMissed(t *testing.T) {
	today := date(2024, time.March, 15)

	in := baseInput(date(2024, time.March, 10), today)
	in.DailyTasks = []*task.Task{dailyTask()}
	in.Entry = &entry.DailyEntry{EntryDate: in.Day, IsCompleted: false}
	if got := ResolveDayStatus(in); got != calendar.StatusPartial {
		t.Errorf("incomplete entry = %v, want partial", got)
	}

	in = baseInput(today, today)
	in.DailyTasks = []*task.Task{dailyTask()}
	if got := ResolveDayStatus(in); got != calendar.StatusToday {
		t.Errorf("no entry today = %v, want today", got)
	}

	in = baseInput(date(2024, time.March, 10), today)
	in.DailyTasks = []*task.Task{dailyTask()}
	if got := ResolveDayStatus(in); got != calendar.StatusMissed {
		t.Errorf("no entry in past = %v, want missed", got)
	}
}

// Scenario F: weekly-only challenge, current week complete, no daily tasks.
func TestWeeklyOnlyAllCompleteAcrossWeek(t *testing.T) {
	wt := weeklyTask()
	today := date(2024, time.March, 15) // Friday, week of Mar 11

	for d := 11; d <= 15; d++ {
		in := baseInput(date(2024, time.March, d), today)
		in.WeeklyTasks = []*task.Task{wt}
		in.Completions = []*entry.PeriodicCompletion{completion(wt, "2024-03-11")}

		if got := ResolveDayStatus(in); got != calendar.StatusAllComplete {
			t.Errorf("day %d = %v, want all_complete for whole week", d, got)
		}
	}
}

func TestPeriodOnlyPendingAndMissed(t *testing.T) {
	wt := weeklyTask()
	today := date(2024, time.March, 15)

	// Current week, nothing completed yet: pending.
	in := baseInput(date(2024, time.March, 13), today)
	in.WeeklyTasks = []*task.Task{wt}
	if got := ResolveDayStatus(in); got != calendar.StatusPeriodPending {
		t.Errorf("open week = %v, want period_pending", got)
	}

	// Previous week ended without completion: missed.
	in = baseInput(date(2024, time.March, 6), today)
	in.WeeklyTasks = []*task.Task{wt}
	if got := ResolveDayStatus(in); got != calendar.StatusMissed {
		t.Errorf("ended week = %v, want missed", got)
	}
}

func TestPeriodOnlyEitherDoneIsCompleted(t *testing.T) {
	wt := weeklyTask()
	mt := monthlyTask()
	today := date(2024, time.March, 15)

	in := baseInput(date(2024, time.March, 13), today)
	in.WeeklyTasks = []*task.Task{wt}
	in.MonthlyTasks = []*task.Task{mt}
	in.Completions = []*entry.PeriodicCompletion{completion(wt, "2024-03-11")}

	if got := ResolveDayStatus(in); got != calendar.StatusCompleted {
		t.Errorf("weekly done, monthly pending = %v, want completed", got)
	}
}

func TestNoTasksAtAllIsOutside(t *testing.T) {
	in := baseInput(date(2024, time.March, 10), date(2024, time.March, 15))
	if got := ResolveDayStatus(in); got != calendar.StatusOutside {
		t.Errorf("taskless challenge = %v, want outside", got)
	}
}

func TestStrayCompletionIgnored(t *testing.T) {
	wt := weeklyTask()
	in := baseInput(date(2024, time.March, 13), date(2024, time.March, 15))
	in.WeeklyTasks = []*task.Task{wt}
	// Completion keyed to a period nowhere near this day.
	in.Completions = []*entry.PeriodicCompletion{completion(wt, "2023-06-05")}

	if got := ResolveDayStatus(in); got != calendar.StatusPeriodPending {
		t.Errorf("stray completion = %v, want period_pending (ignored, not an error)", got)
	}
}

// Completeness property: every combination lands on one of the eight states.
func TestStatusAlwaysDefined(t *testing.T) {
	valid := map[calendar.DayStatus]bool{
		calendar.StatusOutside:       true,
		calendar.StatusAllComplete:   true,
		calendar.StatusCompleted:     true,
		calendar.StatusPartial:       true,
		calendar.StatusLate:          true,
		calendar.StatusPeriodPending: true,
		calendar.StatusToday:         true,
		calendar.StatusMissed:        true,
	}

	today := date(2024, time.March, 15)
	dt, wt, mt := dailyTask(), weeklyTask(), monthlyTask()

	taskSets := [][3][]*task.Task{
		{nil, nil, nil},
		{{dt}, nil, nil},
		{nil, {wt}, nil},
		{nil, nil, {mt}},
		{{dt}, {wt}, {mt}},
		{nil, {wt}, {mt}},
	}
	entries := []*entry.DailyEntry{
		nil,
		{IsCompleted: false},
		{IsCompleted: true},
	}

	for d := -5; d <= 40; d += 3 {
		day := date(2024, time.March, 1).AddDate(0, 0, d)
		for _, ts := range taskSets {
			for _, e := range entries {
				in := baseInput(day, today)
				in.DailyTasks, in.WeeklyTasks, in.MonthlyTasks = ts[0], ts[1], ts[2]
				if e != nil {
					ec := *e
					ec.EntryDate = day
					ec.SubmittedAt = day
					in.Entry = &ec
				}

				got := ResolveDayStatus(in)
				if !valid[got] {
					t.Fatalf("undefined status %q for day %v, tasks %v, entry %v", got, day, ts, e)
				}
			}
		}
	}
}
