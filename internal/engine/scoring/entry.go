package scoring

import (
	"habitClashAPI/internal/types/challenge"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

// EntryScore is what one daily save earns. Base and bonus are persisted as
// separate columns so a participant's total can always be re-summed from the
// rows themselves.
type EntryScore struct {
	BasePoints  int `json:"base_points"`
	BonusPoints int `json:"bonus_points"`
}

// BonusStrategy decides how a challenge's streak bonus is applied per
// qualifying entry. The two observed readings of the config field are both
// expressible; flat is the default.
type BonusStrategy interface {
	StreakBonus(bonusPoints, currentStreak int) int
}

// FlatStreakBonus awards the configured amount once per qualifying entry.
type FlatStreakBonus struct{}

func (FlatStreakBonus) StreakBonus(bonusPoints, _ int) int { return bonusPoints }

// PerStreakDayBonus multiplies the configured amount by the pre-entry streak
// length.
type PerStreakDayBonus struct{}

func (PerStreakDayBonus) StreakBonus(bonusPoints, currentStreak int) int {
	if currentStreak < 0 {
		currentStreak = 0
	}
	return bonusPoints * currentStreak
}

// StrategyFor picks the bonus strategy a challenge configured.
func StrategyFor(cfg challenge.BonusConfig) BonusStrategy {
	if cfg.StreakBonusPerDay {
		return PerStreakDayBonus{}
	}
	return FlatStreakBonus{}
}

// ScoreEntry aggregates per-task points for one daily save. dailyTasks must
// already be filtered to frequency=daily; currentStreak is the participant's
// pre-entry streak value.
func ScoreEntry(
	dailyTasks []*task.Task,
	data map[uuid.UUID]task.MetricValue,
	cfg challenge.BonusConfig,
	tiers task.TierTable,
	currentStreak int,
) EntryScore {
	base := 0
	for _, t := range dailyTasks {
		base += ScoreMetric(t, data[t.ID], tiers[t.ID])
	}

	bonus := 0
	if cfg.EnableStreakBonus {
		bonus += StrategyFor(cfg).StreakBonus(cfg.StreakBonusPoints, currentStreak)
	}
	if cfg.EnablePerfectDayBonus && IsPerfectDay(dailyTasks, data, tiers) {
		bonus += cfg.PerfectDayBonusPoints
	}

	return EntryScore{BasePoints: base, BonusPoints: bonus}
}

// IsPerfectDay reports whether every required daily task scored its full
// points. Vacuously true when no required tasks exist.
func IsPerfectDay(dailyTasks []*task.Task, data map[uuid.UUID]task.MetricValue, tiers task.TierTable) bool {
	for _, t := range dailyTasks {
		if !t.Required {
			continue
		}
		if ScoreMetric(t, data[t.ID], tiers[t.ID]) < t.Points {
			return false
		}
	}
	return true
}
