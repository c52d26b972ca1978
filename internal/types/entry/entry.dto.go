package entry

import (
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

type SaveEntryRequest struct {
	ChallengeID string                       `json:"challengeId" validate:"required"`
	EntryDate   string                       `json:"entryDate" validate:"required"` // YYYY-MM-DD
	MetricData  map[string]task.MetricValue  `json:"metricData" validate:"required"`
}

type CompletePeriodicRequest struct {
	ChallengeID string           `json:"challengeId" validate:"required"`
	TaskID      string           `json:"taskId" validate:"required"`
	Value       task.MetricValue `json:"value"`
}

type CompleteOnetimeRequest struct {
	ChallengeID string           `json:"challengeId" validate:"required"`
	TaskID      string           `json:"taskId" validate:"required"`
	Value       task.MetricValue `json:"value"`
}

// SaveEntryResponse echoes what the scoring engine produced for the save.
type SaveEntryResponse struct {
	EntryID       uuid.UUID `json:"entry_id"`
	BasePoints    int       `json:"base_points"`
	BonusPoints   int       `json:"bonus_points"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	TotalPoints   int       `json:"total_points"`
}
