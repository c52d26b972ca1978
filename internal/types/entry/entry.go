package entry

import (
	"time"

	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

// DailyEntry is one participant's record for one calendar date. EntryDate is
// a calendar date, not a timestamp; at most one entry exists per
// (participant, entry_date). Once IsLocked is true the row is immutable.
type DailyEntry struct {
	ID            uuid.UUID                       `json:"id" db:"id"`
	ParticipantID uuid.UUID                       `json:"participant_id" db:"participant_id"`
	ChallengeID   uuid.UUID                       `json:"challenge_id" db:"challenge_id"`
	EntryDate     time.Time                       `json:"entry_date" db:"entry_date"`
	MetricData    map[uuid.UUID]task.MetricValue  `json:"metric_data" db:"metric_data"`
	IsCompleted   bool                            `json:"is_completed" db:"is_completed"`
	IsLocked      bool                            `json:"is_locked" db:"is_locked"`
	PointsEarned  int                             `json:"points_earned" db:"points_earned"`
	BonusPoints   int                             `json:"bonus_points" db:"bonus_points"`
	SubmittedAt   time.Time                       `json:"submitted_at" db:"submitted_at"`
}

// PeriodicCompletion marks a weekly/monthly task done for one period.
// PeriodStart is the period key (ISO date of the period's first day); at most
// one completion exists per (participant, task, period_start).
type PeriodicCompletion struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	ParticipantID uuid.UUID        `json:"participant_id" db:"participant_id"`
	TaskID        uuid.UUID        `json:"task_id" db:"task_id"`
	Frequency     task.Frequency   `json:"frequency" db:"frequency"`
	PeriodStart   string           `json:"period_start" db:"period_start"`
	Value         task.MetricValue `json:"value" db:"value"`
	PointsEarned  int              `json:"points_earned" db:"points_earned"`
	CompletedAt   time.Time        `json:"completed_at" db:"completed_at"`
}

// OnetimeCompletion marks a onetime task done. At most one per
// (participant, task); undo deletes the row rather than updating it.
type OnetimeCompletion struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	ParticipantID uuid.UUID        `json:"participant_id" db:"participant_id"`
	TaskID        uuid.UUID        `json:"task_id" db:"task_id"`
	Value         task.MetricValue `json:"value" db:"value"`
	PointsEarned  int              `json:"points_earned" db:"points_earned"`
	CompletedAt   time.Time        `json:"completed_at" db:"completed_at"`
}
