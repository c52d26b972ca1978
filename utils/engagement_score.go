package utils

import "math"

// CalculateEngagementScore is the ranking coefficient used when two
// participants tie on points everywhere. Streaks dominate quadratically so a
// long run beats a pile of scattered entries.
func CalculateEngagementScore(currentStreak, entriesCount, achievementsCount int) float64 {
	streakScore := math.Pow(float64(currentStreak), 2) * 0.3
	entriesScore := float64(entriesCount) * 0.05
	achievementScore := float64(achievementsCount) * 1.0

	return streakScore + entriesScore + achievementScore
}
