package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	engachievements "habitClashAPI/internal/engine/achievements"
	engstats "habitClashAPI/internal/engine/stats"
	"habitClashAPI/internal/types/achievement"
	"habitClashAPI/internal/types/challenge"
	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/stats"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// achievementNotifier fans unlocked achievements out to the notification
// service without a compile-time cycle between the two.
type achievementNotifier interface {
	NotifyAchievementUnlocked(ctx context.Context, participantID uuid.UUID, a *achievement.Achievement)
}

type AchievementService struct {
	db         *pgxpool.Pool
	challenges *ChallengeService
	notifier   achievementNotifier
}

func NewAchievementService(db *pgxpool.Pool, challenges *ChallengeService) *AchievementService {
	return &AchievementService{db: db, challenges: challenges}
}

func (s *AchievementService) SetNotifier(n achievementNotifier) {
	s.notifier = n
}

// CheckAchievements recomputes the participant's stats from the completion
// rows and awards every newly-qualified achievement. Safe to call any number
// of times: earned achievements are skipped up front and the award insert is
// conditional, so a concurrent double-check degrades to a no-op.
func (s *AchievementService) CheckAchievements(ctx context.Context, participantID uuid.UUID, now time.Time) ([]*achievement.Achievement, error) {
	p, ch, err := s.participantWithChallenge(ctx, participantID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.aggregateStats(ctx, p, ch, now)
	if err != nil {
		return nil, err
	}

	defs, err := s.definitions(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	earned, err := s.earnedSet(ctx, participantID)
	if err != nil {
		return nil, err
	}

	newly := engachievements.EvaluateNew(defs, snapshot, earned, now)

	var awarded []*achievement.Achievement
	for _, e := range newly {
		result, err := s.db.Exec(ctx, `
			INSERT INTO participant_achievements (id, participant_id, achievement_id, earned_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (participant_id, achievement_id) DO NOTHING`,
			uuid.New(), participantID, e.Achievement.ID, e.EarnedAt,
		)
		if err != nil {
			return awarded, fmt.Errorf("failed to award achievement %s: %w", e.Achievement.ID, err)
		}
		// Zero rows means another evaluation got there first; not ours to
		// announce.
		if result.RowsAffected() == 0 {
			continue
		}

		awarded = append(awarded, e.Achievement)
		log.Printf("participant %s unlocked achievement %q", participantID, e.Achievement.Name)

		if s.notifier != nil {
			s.notifier.NotifyAchievementUnlocked(ctx, participantID, e.Achievement)
		}
	}

	return awarded, nil
}

// GetAchievements returns every definition for the challenge with the
// participant's earned flag and progress bar.
func (s *AchievementService) GetAchievements(ctx context.Context, clerkID string, challengeID uuid.UUID, now time.Time) ([]*achievement.AchievementWithStatus, error) {
	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	ch, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.aggregateStats(ctx, p, ch, now)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT a.id, a.challenge_id, a.name, a.description, a.icon, a.category,
		a.trigger_type, a.trigger_value, a.created_at,
		pa.earned_at
	FROM challenge_achievements a
	LEFT JOIN participant_achievements pa
		ON pa.achievement_id = a.id AND pa.participant_id = $2
	WHERE a.challenge_id = $1
	ORDER BY a.created_at
	`

	rows, err := s.db.Query(ctx, query, challengeID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	out := []*achievement.AchievementWithStatus{}
	for rows.Next() {
		a := &achievement.AchievementWithStatus{}
		var earnedAt *time.Time
		err := rows.Scan(
			&a.ID,
			&a.ChallengeID,
			&a.Name,
			&a.Description,
			&a.Icon,
			&a.Category,
			&a.TriggerType,
			&a.TriggerValue,
			&a.CreatedAt,
			&earnedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}

		a.Earned = earnedAt != nil
		a.EarnedAt = earnedAt
		a.Progress = engachievements.Progress(&a.Achievement, snapshot)
		out = append(out, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return out, nil
}

// GetParticipantStats returns the fresh stats snapshot for the authenticated
// participant.
func (s *AchievementService) GetParticipantStats(ctx context.Context, clerkID string, challengeID uuid.UUID, now time.Time) (*stats.ParticipantStats, error) {
	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	ch, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	return s.aggregateStats(ctx, p, ch, now)
}

// aggregateStats loads the participant's full history and runs the reducer.
func (s *AchievementService) aggregateStats(ctx context.Context, p *challenge.Participant, ch *challenge.Challenge, now time.Time) (*stats.ParticipantStats, error) {
	entries, err := loadEntries(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	periodic, err := loadPeriodicCompletions(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	onetime, err := loadOnetimeCompletions(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}

	allTasks, err := s.challenges.GetTasks(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	tiers, err := s.challenges.GetTierTable(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	return engstats.Aggregate(engstats.AggregateInput{
		Entries:        entries,
		Periodic:       periodic,
		Onetime:        onetime,
		DailyTasks:     task.FilterByFrequency(allTasks, task.FrequencyDaily),
		Tiers:          tiers,
		ChallengeStart: ch.StartDate,
		ChallengeEnd:   ch.EndDate,
		StoredLongest:  p.LongestStreak,
		Now:            now,
	}), nil
}

func (s *AchievementService) definitions(ctx context.Context, challengeID uuid.UUID) ([]*achievement.Achievement, error) {
	query := `
	SELECT id, challenge_id, name, description, icon, category, trigger_type, trigger_value, created_at
	FROM challenge_achievements
	WHERE challenge_id = $1
	ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement definitions: %w", err)
	}
	defer rows.Close()

	var defs []*achievement.Achievement
	for rows.Next() {
		a := &achievement.Achievement{}
		err := rows.Scan(
			&a.ID,
			&a.ChallengeID,
			&a.Name,
			&a.Description,
			&a.Icon,
			&a.Category,
			&a.TriggerType,
			&a.TriggerValue,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		defs = append(defs, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating definitions: %w", err)
	}
	return defs, nil
}

func (s *AchievementService) earnedSet(ctx context.Context, participantID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := s.db.Query(ctx,
		`SELECT achievement_id FROM participant_achievements WHERE participant_id = $1`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earned achievements: %w", err)
	}
	defer rows.Close()

	earned := map[uuid.UUID]bool{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan earned id: %w", err)
		}
		earned[id] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earned ids: %w", err)
	}
	return earned, nil
}

func (s *AchievementService) participantWithChallenge(ctx context.Context, participantID uuid.UUID) (*challenge.Participant, *challenge.Challenge, error) {
	p := &challenge.Participant{}
	err := s.db.QueryRow(ctx, `
		SELECT id, challenge_id, user_id, current_streak, longest_streak, total_points, status, joined_at
		FROM participants WHERE id = $1`,
		participantID,
	).Scan(
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
			return nil, nil, fmt.Errorf("participant not found")
		}
		return nil, nil, fmt.Errorf("failed to get participant: %w", err)
	}

	ch, err := s.challenges.GetChallenge(ctx, p.ChallengeID)
	if err != nil {
		return nil, nil, err
	}
	return p, ch, nil
}

// loadEntries fetches every entry row for a participant, completed or not.
func loadEntries(ctx context.Context, db *pgxpool.Pool, participantID uuid.UUID) ([]*entry.DailyEntry, error) {
	query := `
	SELECT id, participant_id, challenge_id, entry_date, metric_data,
		is_completed, is_locked, points_earned, bonus_points, submitted_at
	FROM daily_entries
	WHERE participant_id = $1
	ORDER BY entry_date
	`

	rows, err := db.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	defer rows.Close()

	var entries []*entry.DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

func loadPeriodicCompletions(ctx context.Context, db *pgxpool.Pool, participantID uuid.UUID) ([]*entry.PeriodicCompletion, error) {
	query := `
	SELECT id, participant_id, task_id, frequency, period_start, points_earned, completed_at
	FROM periodic_completions
	WHERE participant_id = $1
	`

	rows, err := db.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch periodic completions: %w", err)
	}
	defer rows.Close()

	var out []*entry.PeriodicCompletion
	for rows.Next() {
		c := &entry.PeriodicCompletion{}
		err := rows.Scan(&c.ID, &c.ParticipantID, &c.TaskID, &c.Frequency, &c.PeriodStart, &c.PointsEarned, &c.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan periodic completion: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating periodic completions: %w", err)
	}
	return out, nil
}

func loadOnetimeCompletions(ctx context.Context, db *pgxpool.Pool, participantID uuid.UUID) ([]*entry.OnetimeCompletion, error) {
	query := `
	SELECT id, participant_id, task_id, points_earned, completed_at
	FROM onetime_completions
	WHERE participant_id = $1
	`

	rows, err := db.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch onetime completions: %w", err)
	}
	defer rows.Close()

	var out []*entry.OnetimeCompletion
	for rows.Next() {
		c := &entry.OnetimeCompletion{}
		err := rows.Scan(&c.ID, &c.ParticipantID, &c.TaskID, &c.PointsEarned, &c.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan onetime completion: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating onetime completions: %w", err)
	}
	return out, nil
}
