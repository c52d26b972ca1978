// Package achievements evaluates achievement definitions against a fresh
// stats snapshot. Evaluation is pure; the conditional insert that makes
// awarding safe under concurrency lives with the persistence layer.
package achievements

import (
	"time"

	"habitClashAPI/internal/types/achievement"
	"habitClashAPI/internal/types/stats"

	"github.com/google/uuid"
)

// MeetsRequirement reports whether the participant's stats satisfy one
// achievement. Unknown trigger types never qualify and never error.
func MeetsRequirement(a *achievement.Achievement, s *stats.ParticipantStats) bool {
	v := a.TriggerValue

	switch a.TriggerType {
	case achievement.TriggerStreakDays:
		return s.CurrentStreak >= v || s.LongestStreak >= v
	case achievement.TriggerTotalPoints:
		return s.TotalPoints >= v
	case achievement.TriggerEntriesLogged:
		return s.EntriesCount >= v
	case achievement.TriggerPerfectDays:
		return s.PerfectDays >= v
	case achievement.TriggerCompletionRate:
		return s.CompletionRate >= v
	case achievement.TriggerChallengeComplete:
		return s.ChallengeComplete
	case achievement.TriggerEarlyEntries:
		return s.EarlyEntries >= v
	case achievement.TriggerLateEntries:
		return s.LateEntries >= v
	default:
		return false
	}
}

// Earned is one newly-qualified achievement, stamped with the evaluation
// time rather than backdated to when the threshold was actually crossed.
type Earned struct {
	Achievement *achievement.Achievement
	EarnedAt    time.Time
}

// EvaluateNew returns the not-yet-earned achievements the stats now satisfy,
// in definition order. Running it again with the same stats and an updated
// earned set yields nothing, which is what makes the check idempotent.
func EvaluateNew(
	defs []*achievement.Achievement,
	s *stats.ParticipantStats,
	earned map[uuid.UUID]bool,
	now time.Time,
) []*Earned {
	var newly []*Earned
	for _, a := range defs {
		if earned[a.ID] {
			continue
		}
		if MeetsRequirement(a, s) {
			newly = append(newly, &Earned{Achievement: a, EarnedAt: now})
		}
	}
	return newly
}

// Progress returns the UI progress pair for an achievement. It reads the
// same stat field as MeetsRequirement so a full bar always means qualified.
func Progress(a *achievement.Achievement, s *stats.ParticipantStats) achievement.Progress {
	target := a.TriggerValue
	var current int

	switch a.TriggerType {
	case achievement.TriggerStreakDays:
		current = s.CurrentStreak
		if s.LongestStreak > current {
			current = s.LongestStreak
		}
	case achievement.TriggerTotalPoints:
		current = s.TotalPoints
	case achievement.TriggerEntriesLogged:
		current = s.EntriesCount
	case achievement.TriggerPerfectDays:
		current = s.PerfectDays
	case achievement.TriggerCompletionRate:
		current = s.CompletionRate
	case achievement.TriggerChallengeComplete:
		target = 1
		if s.ChallengeComplete {
			current = 1
		}
	case achievement.TriggerEarlyEntries:
		current = s.EarlyEntries
	case achievement.TriggerLateEntries:
		current = s.LateEntries
	}

	if current > target {
		current = target
	}
	return achievement.Progress{Current: current, Target: target}
}
