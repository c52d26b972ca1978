package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeAchievementUnlocked NotificationType = "achievement_unlocked"
	TypeStreakMilestone     NotificationType = "streak_milestone"
	TypeChallengeEnding     NotificationType = "challenge_ending"
	TypePeriodDueSoon       NotificationType = "period_due_soon"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Priority  Priority         `json:"priority" db:"priority"`
	Title     string           `json:"title" db:"title"`
	Body      string           `json:"body" db:"body"`
	Data      map[string]any   `json:"data" db:"data"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type CreateNotificationRequest struct {
	UserID   uuid.UUID        `json:"user_id"`
	Type     NotificationType `json:"type"`
	Priority Priority         `json:"priority"`
	Title    string           `json:"title"`
	Body     string           `json:"body"`
	Data     map[string]any   `json:"data"`
}

type DeviceToken struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Token    string    `json:"token" db:"token"`
	Platform string    `json:"platform" db:"platform"`
}
