package stats

// ParticipantStats is the derived, never-persisted aggregate consumed by the
// achievement trigger engine. It is recomputed fresh on every check so stored
// counters can never drift from the underlying records.
type ParticipantStats struct {
	CurrentStreak     int  `json:"current_streak"`
	LongestStreak     int  `json:"longest_streak"`
	TotalPoints       int  `json:"total_points"`
	EntriesCount      int  `json:"entries_count"`
	PerfectDays       int  `json:"perfect_days"`
	CompletionRate    int  `json:"completion_rate"` // 0-100
	EarlyEntries      int  `json:"early_entries"`
	LateEntries       int  `json:"late_entries"`
	ChallengeComplete bool `json:"challenge_complete"`
}
