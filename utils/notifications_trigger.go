package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitClashAPI/internal/types/notification"
)

// NotificationCreator is the one method the triggers need from the
// notification service.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// Streak lengths that are worth announcing to the rest of the challenge.
var streakMilestones = map[int]bool{7: true, 14: true, 30: true, 60: true, 100: true}

// StreakMilestoneReached tells the other participants of a challenge that
// someone just hit a milestone streak. Meant to run off the request path.
func StreakMilestoneReached(db *pgxpool.Pool, notifier NotificationCreator, participantID uuid.UUID, streak int) {
	if !streakMilestones[streak] {
		return
	}

	bgCtx := context.Background()

	var challengeID uuid.UUID
	var username string
	err := db.QueryRow(bgCtx, `
		SELECT p.challenge_id, u.username
		FROM participants p JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`,
		participantID,
	).Scan(&challengeID, &username)
	if err != nil {
		log.Printf("Failed to resolve participant %s for milestone notification: %v", participantID, err)
		return
	}

	rows, err := db.Query(bgCtx, `
		SELECT user_id FROM participants
		WHERE challenge_id = $1 AND id != $2 AND status = 'active'`,
		challengeID, participantID,
	)
	if err != nil {
		log.Printf("Failed to get participants for milestone notification: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			continue
		}

		req := &notification.CreateNotificationRequest{
			UserID:   userID,
			Type:     notification.TypeStreakMilestone,
			Priority: notification.PriorityNormal,
			Title:    "Streak milestone",
			Body:     fmt.Sprintf("%s just hit a %d-day streak", username, streak),
			Data: map[string]any{
				"username":     username,
				"streak":       streak,
				"challenge_id": challengeID.String(),
			},
		}

		if _, err := notifier.CreateNotification(bgCtx, req); err != nil {
			log.Printf("Failed to create milestone notification for %s: %v", userID, err)
		}
	}
}
