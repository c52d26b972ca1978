package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"habitClashAPI/internal/types/achievement"
	"habitClashAPI/internal/types/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PushProvider is implemented by the FCM client. Nil provider means
// notifications are persisted but never pushed, which is what local dev runs
// without firebase credentials get.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// CreateNotification persists a notification and pushes it to the user's
// devices off the request path.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	priority := req.Priority
	if priority == "" {
		priority = notification.PriorityNormal
	}

	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
	INSERT INTO notifications (id, user_id, type, priority, title, body, data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	RETURNING id, user_id, type, priority, title, body, created_at
	`

	n := &notification.Notification{Data: req.Data}
	err = s.db.QueryRow(ctx, query,
		uuid.New(), req.UserID, req.Type, priority, req.Title, req.Body, dataJSON,
	).Scan(&n.ID, &n.UserID, &n.Type, &n.Priority, &n.Title, &n.Body, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.push != nil {
		go s.pushToDevices(n)
	}

	return n, nil
}

func (s *NotificationService) pushToDevices(n *notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens, err := s.deviceTokens(ctx, n.UserID)
	if err != nil {
		log.Printf("push skipped for user %s: %v", n.UserID, err)
		return
	}

	if err := s.push.SendPush(ctx, tokens, n.Title, n.Body, n.Data); err != nil {
		log.Printf("push failed for user %s: %v", n.UserID, err)
	}
}

// NotifyAchievementUnlocked is the hook the achievement service calls after
// an award lands.
func (s *NotificationService) NotifyAchievementUnlocked(ctx context.Context, participantID uuid.UUID, a *achievement.Achievement) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT user_id FROM participants WHERE id = $1`, participantID).Scan(&userID)
	if err != nil {
		log.Printf("achievement notification skipped, participant %s: %v", participantID, err)
		return
	}

	_, err = s.CreateNotification(ctx, &notification.CreateNotificationRequest{
		UserID:   userID,
		Type:     notification.TypeAchievementUnlocked,
		Priority: notification.PriorityHigh,
		Title:    "Achievement unlocked!",
		Body:     fmt.Sprintf("You earned %q", a.Name),
		Data: map[string]any{
			"achievement_id": a.ID.String(),
			"challenge_id":   a.ChallengeID.String(),
		},
	})
	if err != nil {
		log.Printf("achievement notification failed for user %s: %v", userID, err)
	}
}

// GetNotifications pages through the user's notifications, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := `
	SELECT id, user_id, type, priority, title, body, data, read_at, created_at
	FROM notifications
	WHERE user_id = $1
	`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	out := []*notification.Notification{}
	for rows.Next() {
		n := &notification.Notification{}
		var dataJSON []byte
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Priority, &n.Title, &n.Body, &dataJSON, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				log.Printf("bad notification data for %s: %v", n.ID, err)
			}
		}
		out = append(out, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return out, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, clerkID string) (int, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, clerkID string, notificationID uuid.UUID) error {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark as read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, clerkID string) error {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark all as read: %w", err)
	}
	return nil
}

// RegisterDeviceToken upserts a push token. Tokens are globally unique, so a
// token moving between accounts just gets reassigned.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, clerkID, token, platform string) error {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	query := `
	INSERT INTO device_tokens (id, user_id, token, platform)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
	`

	_, err = s.db.Exec(ctx, query, uuid.New(), userID, token, platform)
	if err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

func (s *NotificationService) UnregisterDeviceToken(ctx context.Context, clerkID, token string) error {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("failed to unregister device token: %w", err)
	}
	return nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, token, platform FROM device_tokens WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device tokens: %w", err)
	}
	return tokens, nil
}
