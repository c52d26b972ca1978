package challenge

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantStatus string

const (
	ParticipantActive    ParticipantStatus = "active"
	ParticipantCompleted ParticipantStatus = "completed"
	ParticipantLeft      ParticipantStatus = "left"
)

// BonusConfig is the challenge-level bonus switchboard consumed by the entry
// scorer. StreakBonusPoints is awarded per qualifying entry (flat) unless the
// challenge opts into the per-streak-day strategy.
type BonusConfig struct {
	EnableStreakBonus     bool `json:"enable_streak_bonus" db:"enable_streak_bonus"`
	StreakBonusPoints     int  `json:"streak_bonus_points" db:"streak_bonus_points"`
	StreakBonusPerDay     bool `json:"streak_bonus_per_day" db:"streak_bonus_per_day"`
	EnablePerfectDayBonus bool `json:"enable_perfect_day_bonus" db:"enable_perfect_day_bonus"`
	PerfectDayBonusPoints int  `json:"perfect_day_bonus_points" db:"perfect_day_bonus_points"`
}

type Challenge struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OwnerID     uuid.UUID   `json:"owner_id" db:"owner_id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	Bonus       BonusConfig `json:"bonus"`
	InviteCode  string      `json:"invite_code" db:"invite_code"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Participant aggregate state. TotalPoints is always recomputed as a full
// re-sum over persisted entries/completions, never incremented in place.
type Participant struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	ChallengeID   uuid.UUID         `json:"challenge_id" db:"challenge_id"`
	UserID        uuid.UUID         `json:"user_id" db:"user_id"`
	CurrentStreak int               `json:"current_streak" db:"current_streak"`
	LongestStreak int               `json:"longest_streak" db:"longest_streak"`
	TotalPoints   int               `json:"total_points" db:"total_points"`
	Status        ParticipantStatus `json:"status" db:"status"`
	JoinedAt      time.Time         `json:"joined_at" db:"joined_at"`
}
