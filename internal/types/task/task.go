package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TypeBoolean  TaskType = "boolean"
	TypeNumber   TaskType = "number"
	TypeDuration TaskType = "duration"
	TypeChoice   TaskType = "choice"
	TypeText     TaskType = "text"
	TypeFile     TaskType = "file"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyOnetime Frequency = "onetime"
)

type ScoringMode string

const (
	ScoringBinary ScoringMode = "binary"
	ScoringScaled ScoringMode = "scaled"
	ScoringTiered ScoringMode = "tiered"
)

type ThresholdType string

const (
	ThresholdMin ThresholdType = "min"
	ThresholdMax ThresholdType = "max"
)

type Task struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	ChallengeID   uuid.UUID     `json:"challenge_id" db:"challenge_id"`
	Name          string        `json:"name" db:"name"`
	Type          TaskType      `json:"type" db:"type"`
	Frequency     Frequency     `json:"frequency" db:"frequency"`
	Required      bool          `json:"required" db:"required"`
	Points        int           `json:"points" db:"points"`
	ScoringMode   ScoringMode   `json:"scoring_mode" db:"scoring_mode"`
	Threshold     float64       `json:"threshold" db:"threshold"`
	ThresholdType ThresholdType `json:"threshold_type" db:"threshold_type"`
	StartsAt      *time.Time    `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt        *time.Time    `json:"ends_at,omitempty" db:"ends_at"`
	Deadline      *time.Time    `json:"deadline,omitempty" db:"deadline"` // onetime only
	Position      int           `json:"position" db:"position"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// FilterByFrequency returns the subset of tasks with the given frequency,
// preserving order.
func FilterByFrequency(tasks []*Task, freq Frequency) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.Frequency == freq {
			out = append(out, t)
		}
	}
	return out
}

// Tier is one row of a challenge-supplied tiered-scoring table: reaching
// Threshold (in the direction of the task's threshold_type) awards Points.
type Tier struct {
	Threshold float64 `json:"threshold"`
	Points    int     `json:"points"`
}

// TierTable maps task IDs to their tier rows. Rows are evaluated best-first
// by the scorer; an empty or missing table falls back to binary scoring.
type TierTable map[uuid.UUID][]Tier
