// Package stats reduces a participant's full completion history into the
// flat record the achievement engine evaluates. The record is recomputed
// fresh on every check, never cached, so it cannot drift from the rows.
package stats

import (
	"sort"
	"time"

	"habitClashAPI/internal/engine/period"
	"habitClashAPI/internal/engine/scoring"
	"habitClashAPI/internal/engine/streak"
	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/stats"
	"habitClashAPI/internal/types/task"
)

// Submissions before this hour count as early, at or after LateHour as late.
const (
	EarlyHour = 9
	LateHour  = 21
)

type AggregateInput struct {
	Entries    []*entry.DailyEntry
	Periodic   []*entry.PeriodicCompletion
	Onetime    []*entry.OnetimeCompletion
	DailyTasks []*task.Task
	Tiers      task.TierTable

	ChallengeStart time.Time
	ChallengeEnd   time.Time
	StoredLongest  int
	Now            time.Time
}

// Aggregate produces the ParticipantStats snapshot. Zero history yields an
// all-zero record, not an error.
func Aggregate(in AggregateInput) *stats.ParticipantStats {
	out := &stats.ParticipantStats{LongestStreak: in.StoredLongest}

	var completed []*entry.DailyEntry
	for _, e := range in.Entries {
		if e.IsCompleted {
			completed = append(completed, e)
		}
	}

	// Most-recent-first for the streak walk.
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].EntryDate.After(completed[j].EntryDate)
	})

	dates := make([]time.Time, len(completed))
	for i, e := range completed {
		dates[i] = e.EntryDate
	}
	out.CurrentStreak, out.LongestStreak = streak.Calculate(dates, in.Now, in.StoredLongest)

	total := 0
	for _, e := range completed {
		total += e.PointsEarned + e.BonusPoints

		if scoring.IsPerfectDay(in.DailyTasks, e.MetricData, in.Tiers) {
			out.PerfectDays++
		}

		switch hour := e.SubmittedAt.Hour(); {
		case hour < EarlyHour:
			out.EarlyEntries++
		case hour >= LateHour:
			out.LateEntries++
		}
	}
	for _, c := range in.Periodic {
		total += c.PointsEarned
	}
	for _, c := range in.Onetime {
		total += c.PointsEarned
	}
	out.TotalPoints = total
	out.EntriesCount = len(completed)

	out.CompletionRate = completionRate(len(completed), in.ChallengeStart, in.ChallengeEnd, in.Now)
	out.ChallengeComplete = challengeComplete(in)

	return out
}

// completionRate is completed entries over elapsed challenge days, as a
// 0-100 integer. The elapsed window is clamped to the challenge bounds.
func completionRate(completed int, start, end, now time.Time) int {
	if completed == 0 {
		return 0
	}

	upto := period.DateOnly(now)
	if e := period.DateOnly(end); upto.After(e) {
		upto = e
	}
	elapsed := period.DaysBetween(upto, start) + 1
	if elapsed < 1 {
		return 0
	}

	rate := completed * 100 / elapsed
	if rate > 100 {
		rate = 100
	}
	return rate
}

// challengeComplete is true once the challenge window has closed behind a
// participant who logged at least one completed entry.
func challengeComplete(in AggregateInput) bool {
	boundary := period.DateOnly(in.ChallengeEnd).AddDate(0, 0, 1)
	if in.Now.Before(boundary) {
		return false
	}
	for _, e := range in.Entries {
		if e.IsCompleted {
			return true
		}
	}
	return len(in.Onetime) > 0 || len(in.Periodic) > 0
}
