package stats

import (
	"testing"
	"time"

	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completedEntry(day time.Time, points, bonus int, submittedAt time.Time) *entry.DailyEntry {
	return &entry.DailyEntry{
		ID:           uuid.New(),
		EntryDate:    day,
		IsCompleted:  true,
		PointsEarned: points,
		BonusPoints:  bonus,
		SubmittedAt:  submittedAt,
	}
}

func baseInput() AggregateInput {
	return AggregateInput{
		ChallengeStart: date(2024, time.January, 1),
		ChallengeEnd:   date(2024, time.January, 31),
		Now:            date(2024, time.January, 10),
	}
}

func TestAggregateEmptyHistory(t *testing.T) {
	in := baseInput()
	in.StoredLongest = 3

	s := Aggregate(in)
	if s.CurrentStreak != 0 || s.TotalPoints != 0 || s.EntriesCount != 0 ||
		s.PerfectDays != 0 || s.CompletionRate != 0 || s.ChallengeComplete {
		t.Errorf("empty history should be all zeros, got %+v", s)
	}
	if s.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want stored 3 preserved", s.LongestStreak)
	}
}

func TestAggregateTotalPointsIsFullResum(t *testing.T) {
	in := baseInput()
	in.Entries = []*entry.DailyEntry{
		completedEntry(date(2024, time.January, 10), 5, 2, date(2024, time.January, 10)),
		completedEntry(date(2024, time.January, 9), 3, 0, date(2024, time.January, 9)),
	}
	in.Periodic = []*entry.PeriodicCompletion{{PointsEarned: 4}}
	in.Onetime = []*entry.OnetimeCompletion{{PointsEarned: 7}}

	s := Aggregate(in)
	if s.TotalPoints != 21 {
		t.Errorf("TotalPoints = %d, want 21 (5+2 + 3+0 + 4 + 7)", s.TotalPoints)
	}
	if s.EntriesCount != 2 {
		t.Errorf("EntriesCount = %d, want 2", s.EntriesCount)
	}
	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", s.CurrentStreak)
	}
}

func TestAggregateIgnoresIncompleteEntries(t *testing.T) {
	in := baseInput()
	in.Entries = []*entry.DailyEntry{
		completedEntry(date(2024, time.January, 10), 5, 0, date(2024, time.January, 10)),
		{EntryDate: date(2024, time.January, 9), IsCompleted: false, PointsEarned: 99},
	}

	s := Aggregate(in)
	if s.EntriesCount != 1 {
		t.Errorf("EntriesCount = %d, want 1 (partial entries don't count)", s.EntriesCount)
	}
	if s.TotalPoints != 5 {
		t.Errorf("TotalPoints = %d, want 5", s.TotalPoints)
	}
}

func TestAggregateEarlyAndLateEntries(t *testing.T) {
	in := baseInput()
	in.Entries = []*entry.DailyEntry{
		completedEntry(date(2024, time.January, 10), 1, 0,
			time.Date(2024, time.January, 10, 7, 30, 0, 0, time.UTC)), // early
		completedEntry(date(2024, time.January, 9), 1, 0,
			time.Date(2024, time.January, 9, 21, 0, 0, 0, time.UTC)), // late, boundary inclusive
		completedEntry(date(2024, time.January, 8), 1, 0,
			time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC)), // neither
		completedEntry(date(2024, time.January, 7), 1, 0,
			time.Date(2024, time.January, 7, 8, 59, 0, 0, time.UTC)), // early
	}

	s := Aggregate(in)
	if s.EarlyEntries != 2 {
		t.Errorf("EarlyEntries = %d, want 2", s.EarlyEntries)
	}
	if s.LateEntries != 1 {
		t.Errorf("LateEntries = %d, want 1", s.LateEntries)
	}
}

func TestAggregatePerfectDays(t *testing.T) {
	req := &task.Task{ID: uuid.New(), Type: task.TypeBoolean, Frequency: task.FrequencyDaily, Points: 2, Required: true}

	perfect := completedEntry(date(2024, time.January, 10), 2, 0, date(2024, time.January, 10))
	perfect.MetricData = map[uuid.UUID]task.MetricValue{req.ID: task.BoolValue(true)}

	flawed := completedEntry(date(2024, time.January, 9), 0, 0, date(2024, time.January, 9))
	flawed.MetricData = map[uuid.UUID]task.MetricValue{req.ID: task.BoolValue(false)}

	in := baseInput()
	in.DailyTasks = []*task.Task{req}
	in.Entries = []*entry.DailyEntry{perfect, flawed}

	s := Aggregate(in)
	if s.PerfectDays != 1 {
		t.Errorf("PerfectDays = %d, want 1", s.PerfectDays)
	}
}

func TestAggregateCompletionRate(t *testing.T) {
	in := baseInput()
	in.Now = date(2024, time.January, 10) // 10 elapsed days
	for d := 6; d <= 10; d++ {
		in.Entries = append(in.Entries,
			completedEntry(date(2024, time.January, d), 1, 0, date(2024, time.January, d)))
	}

	s := Aggregate(in)
	if s.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, want 50 (5 of 10 days)", s.CompletionRate)
	}
}

func TestAggregateCompletionRateClampedPastChallengeEnd(t *testing.T) {
	in := baseInput()
	in.ChallengeEnd = date(2024, time.January, 5)
	in.Now = date(2024, time.February, 1)
	for d := 1; d <= 5; d++ {
		in.Entries = append(in.Entries,
			completedEntry(date(2024, time.January, d), 1, 0, date(2024, time.January, d)))
	}

	s := Aggregate(in)
	if s.CompletionRate != 100 {
		t.Errorf("CompletionRate = %d, want 100 (denominator stops at challenge end)", s.CompletionRate)
	}
	if !s.ChallengeComplete {
		t.Error("ChallengeComplete should be true after the window closes with history")
	}
}

func TestAggregateChallengeNotCompleteWhileRunning(t *testing.T) {
	in := baseInput()
	in.Entries = []*entry.DailyEntry{
		completedEntry(date(2024, time.January, 10), 1, 0, date(2024, time.January, 10)),
	}

	if s := Aggregate(in); s.ChallengeComplete {
		t.Error("ChallengeComplete must stay false while the window is open")
	}
}
