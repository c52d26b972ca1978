package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	engperiod "habitClashAPI/internal/engine/period"
	"habitClashAPI/internal/types/challenge"
	"habitClashAPI/internal/types/period"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skip2/go-qrcode"
)

type ChallengeService struct {
	db *pgxpool.Pool
}

func NewChallengeService(db *pgxpool.Pool) *ChallengeService {
	return &ChallengeService{db: db}
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*challenge.Challenge, error) {
	query := `
	SELECT id, owner_id, name, description, start_date, end_date,
		enable_streak_bonus, streak_bonus_points, streak_bonus_per_day,
		enable_perfect_day_bonus, perfect_day_bonus_points,
		invite_code, is_active, created_at, updated_at
	FROM challenges
	WHERE id = $1
	`

	c := &challenge.Challenge{}
	err := s.db.QueryRow(ctx, query, challengeID).Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Description,
		&c.StartDate,
		&c.EndDate,
		&c.Bonus.EnableStreakBonus,
		&c.Bonus.StreakBonusPoints,
		&c.Bonus.StreakBonusPerDay,
		&c.Bonus.EnablePerfectDayBonus,
		&c.Bonus.PerfectDayBonusPoints,
		&c.InviteCode,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return c, nil
}

// GetTasks returns the challenge's ordered task list.
func (s *ChallengeService) GetTasks(ctx context.Context, challengeID uuid.UUID) ([]*task.Task, error) {
	query := `
	SELECT id, challenge_id, name, type, frequency, required, points,
		scoring_mode, threshold, threshold_type, starts_at, ends_at, deadline,
		position, created_at
	FROM challenge_tasks
	WHERE challenge_id = $1
	ORDER BY position, created_at
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t := &task.Task{}
		err := rows.Scan(
			&t.ID,
			&t.ChallengeID,
			&t.Name,
			&t.Type,
			&t.Frequency,
			&t.Required,
			&t.Points,
			&t.ScoringMode,
			&t.Threshold,
			&t.ThresholdType,
			&t.StartsAt,
			&t.EndsAt,
			&t.Deadline,
			&t.Position,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

// GetTierTable loads the challenge-supplied tier rows for tiered-scoring
// tasks. Empty table is fine; the scorer falls back to binary.
func (s *ChallengeService) GetTierTable(ctx context.Context, challengeID uuid.UUID) (task.TierTable, error) {
	query := `
	SELECT tt.task_id, tt.threshold, tt.points
	FROM task_tiers tt
	JOIN challenge_tasks ct ON ct.id = tt.task_id
	WHERE ct.challenge_id = $1
	ORDER BY tt.task_id, tt.threshold
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tier table: %w", err)
	}
	defer rows.Close()

	table := task.TierTable{}
	for rows.Next() {
		var taskID uuid.UUID
		var tier task.Tier
		if err := rows.Scan(&taskID, &tier.Threshold, &tier.Points); err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		table[taskID] = append(table[taskID], tier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tiers: %w", err)
	}
	return table, nil
}

// JoinByInviteCode enrolls the authenticated user into the challenge behind
// the code. Re-joining is a no-op thanks to the unique participant row.
func (s *ChallengeService) JoinByInviteCode(ctx context.Context, clerkID string, inviteCode string) (*challenge.Participant, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	var challengeID uuid.UUID
	err = s.db.QueryRow(ctx,
		`SELECT id FROM challenges WHERE invite_code = $1 AND is_active = true`,
		inviteCode,
	).Scan(&challengeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invite code not found")
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	query := `
	INSERT INTO participants (id, challenge_id, user_id, status, joined_at)
	VALUES ($1, $2, $3, 'active', NOW())
	ON CONFLICT (challenge_id, user_id) DO UPDATE SET status = 'active'
	RETURNING id, challenge_id, user_id, current_streak, longest_streak, total_points, status, joined_at
	`

	p := &challenge.Participant{}
	err = s.db.QueryRow(ctx, query, uuid.New(), challengeID, userID).Scan(
		&p.ID,
		&p.ChallengeID,
		&p.UserID,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.TotalPoints,
		&p.Status,
		&p.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to join challenge: %w", err)
	}

	log.Printf("JoinByInviteCode: user %s joined challenge %s", userID, challengeID)
	return p, nil
}

type InviteQrResponse struct {
	ChallengeID  uuid.UUID `json:"challenge_id"`
	InviteCode   string    `json:"invite_code"`
	QrCodeBase64 string    `json:"qr_code_base64"`
}

// GenerateInviteQr renders the challenge invite link as a QR PNG for the
// share sheet.
func (s *ChallengeService) GenerateInviteQr(ctx context.Context, clerkID string, challengeID uuid.UUID) (*InviteQrResponse, error) {
	if _, err := userIDByClerkID(ctx, s.db, clerkID); err != nil {
		return nil, err
	}

	var inviteCode string
	err := s.db.QueryRow(ctx, `SELECT invite_code FROM challenges WHERE id = $1`, challengeID).Scan(&inviteCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to get invite code: %w", err)
	}

	qrContent := fmt.Sprintf("habitclash://challenge/join/%s", inviteCode)

	pngBytes, err := qrcode.Encode(qrContent, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &InviteQrResponse{
		ChallengeID:  challengeID,
		InviteCode:   inviteCode,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}

// GetParticipants lists the challenge's roster, longest-standing first.
func (s *ChallengeService) GetParticipants(ctx context.Context, challengeID uuid.UUID) ([]*challenge.Participant, error) {
	query := `
	SELECT id, challenge_id, user_id, current_streak, longest_streak, total_points, status, joined_at
	FROM participants
	WHERE challenge_id = $1 AND status != 'left'
	ORDER BY joined_at
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}
	defer rows.Close()

	participants := []*challenge.Participant{}
	for rows.Next() {
		p := &challenge.Participant{}
		err := rows.Scan(
			&p.ID,
			&p.ChallengeID,
			&p.UserID,
			&p.CurrentStreak,
			&p.LongestStreak,
			&p.TotalPoints,
			&p.Status,
			&p.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return participants, nil
}

// getParticipant resolves the participant row for (clerkID, challenge).
func getParticipant(ctx context.Context, db *pgxpool.Pool, clerkID string, challengeID uuid.UUID) (*challenge.Participant, error) {
	userID, err := userIDByClerkID(ctx, db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, challenge_id, user_id, current_streak, longest_streak, total_points, status, joined_at
	FROM participants
	WHERE challenge_id = $1 AND user_id = $2
	`

	p := &challenge.Participant{}
	err = db.QueryRow(ctx, query, challengeID, userID).Scan(
		&p.ID,
		&p.ChallengeID,
		&p.UserID,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.TotalPoints,
		&p.Status,
		&p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("not a participant of this challenge")
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

type TaskDueStatus struct {
	Task      *task.Task       `json:"task"`
	Period    period.Period    `json:"period"`
	DueStatus period.DueStatus `json:"due_status"`
	Completed bool             `json:"completed"`
}

// GetTaskDueStatuses reports where each weekly/monthly task stands in its
// current period for the authenticated participant.
func (s *ChallengeService) GetTaskDueStatuses(ctx context.Context, clerkID string, challengeID uuid.UUID, now time.Time) ([]*TaskDueStatus, error) {
	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.GetTasks(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	statuses := []*TaskDueStatus{}
	for _, t := range tasks {
		pd, ok := engperiod.For(t.Frequency, now)
		if !ok {
			continue
		}

		var completed bool
		err := s.db.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM periodic_completions
				WHERE participant_id = $1 AND task_id = $2 AND period_start = $3
			)`, p.ID, t.ID, pd.Key,
		).Scan(&completed)
		if err != nil {
			return nil, fmt.Errorf("failed to check completion: %w", err)
		}

		statuses = append(statuses, &TaskDueStatus{
			Task:      t,
			Period:    pd,
			DueStatus: engperiod.DueStatus(pd, now),
			Completed: completed,
		})
	}

	return statuses, nil
}
