package leaderboard

import "github.com/google/uuid"

type LeaderboardEntry struct {
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	Username      string    `json:"username" db:"username"`
	ImageURL      *string   `json:"image_url" db:"image_url"`
	TotalPoints   int       `json:"total_points" db:"total_points"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	Rank          int       `json:"rank" db:"rank"`

	// EngagementScore is a derived ranking coefficient, not persisted.
	EngagementScore float64 `json:"engagement_score"`
}

type Leaderboard struct {
	Entries      []*LeaderboardEntry `json:"entries"`
	UserPosition *LeaderboardEntry   `json:"user_position"`
	TotalUsers   int                 `json:"total_users"`
}
