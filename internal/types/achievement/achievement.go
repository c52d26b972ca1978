package achievement

import (
	"time"

	"github.com/google/uuid"
)

type TriggerType string

const (
	TriggerStreakDays        TriggerType = "streak_days"
	TriggerTotalPoints       TriggerType = "total_points"
	TriggerEntriesLogged     TriggerType = "entries_logged"
	TriggerPerfectDays       TriggerType = "perfect_days"
	TriggerCompletionRate    TriggerType = "completion_rate"
	TriggerChallengeComplete TriggerType = "challenge_complete"
	TriggerEarlyEntries      TriggerType = "early_entries"
	TriggerLateEntries       TriggerType = "late_entries"
)

type Achievement struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	ChallengeID  uuid.UUID   `json:"challenge_id" db:"challenge_id"`
	Name         string      `json:"name" db:"name"`
	Description  string      `json:"description" db:"description"`
	Icon         string      `json:"icon" db:"icon"`
	Category     string      `json:"category" db:"category"`
	TriggerType  TriggerType `json:"trigger_type" db:"trigger_type"`
	TriggerValue int         `json:"trigger_value" db:"trigger_value"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// ParticipantAchievement is the award row. The (participant_id,
// achievement_id) pair is unique-constrained so concurrent evaluations
// cannot double-award.
type ParticipantAchievement struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" db:"earned_at"`
}

type AchievementWithStatus struct {
	Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
	Progress Progress   `json:"progress"`
}

// Progress is the UI progress-bar pair. It uses the same stat field mapping
// as requirement evaluation so the two can never disagree.
type Progress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}
