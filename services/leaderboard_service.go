package services

import (
	"context"
	"errors"
	"fmt"

	"habitClashAPI/internal/types/leaderboard"
	"habitClashAPI/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaderboardService struct {
	db *pgxpool.Pool
}

func NewLeaderboardService(db *pgxpool.Pool) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetChallengeLeaderboard ranks a challenge's active participants by total
// points, longest current streak breaking ties. UserPosition carries the
// caller's own row even when it falls outside the visible page.
func (s *LeaderboardService) GetChallengeLeaderboard(ctx context.Context, clerkID string, challengeID uuid.UUID, limit int) (*leaderboard.Leaderboard, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	callerID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT p.id, u.id, u.username, u.image_url, p.total_points, p.current_streak,
		RANK() OVER (ORDER BY p.total_points DESC, p.current_streak DESC) AS rank,
		(SELECT COUNT(*) FROM daily_entries de
			WHERE de.participant_id = p.id AND de.is_completed = true) AS entries,
		(SELECT COUNT(*) FROM participant_achievements pa
			WHERE pa.participant_id = p.id) AS achievements
	FROM participants p
	JOIN users u ON u.id = p.user_id
	WHERE p.challenge_id = $1 AND p.status = 'active'
	ORDER BY rank
	LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, challengeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	lb := &leaderboard.Leaderboard{Entries: []*leaderboard.LeaderboardEntry{}}
	for rows.Next() {
		e := &leaderboard.LeaderboardEntry{}
		var userID uuid.UUID
		var entries, achievements int
		err := rows.Scan(
			&e.ParticipantID,
			&userID,
			&e.Username,
			&e.ImageURL,
			&e.TotalPoints,
			&e.CurrentStreak,
			&e.Rank,
			&entries,
			&achievements,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.EngagementScore = utils.CalculateEngagementScore(e.CurrentStreak, entries, achievements)

		if userID == callerID {
			lb.UserPosition = e
		}
		lb.Entries = append(lb.Entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE challenge_id = $1 AND status = 'active'`,
		challengeID,
	).Scan(&lb.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	// Caller outside the visible page: resolve their row separately.
	if lb.UserPosition == nil {
		e := &leaderboard.LeaderboardEntry{}
		err := s.db.QueryRow(ctx, `
			SELECT participant_id, username, image_url, total_points, current_streak, rank
			FROM (
				SELECT p.id AS participant_id, p.user_id, u.username, u.image_url,
					p.total_points, p.current_streak,
					RANK() OVER (ORDER BY p.total_points DESC, p.current_streak DESC) AS rank
				FROM participants p
				JOIN users u ON u.id = p.user_id
				WHERE p.challenge_id = $1 AND p.status = 'active'
			) ranked
			WHERE user_id = $2`,
			challengeID, callerID,
		).Scan(&e.ParticipantID, &e.Username, &e.ImageURL, &e.TotalPoints, &e.CurrentStreak, &e.Rank)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to resolve caller rank: %w", err)
			}
			// Not a participant; UserPosition stays nil.
		} else {
			lb.UserPosition = e
		}
	}

	return lb, nil
}
