package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	engperiod "habitClashAPI/internal/engine/period"
	"habitClashAPI/internal/engine/scoring"
	"habitClashAPI/internal/engine/streak"
	"habitClashAPI/internal/types/achievement"
	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/task"
	"habitClashAPI/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEntryLocked = errors.New("entry is locked and cannot be modified")

// achievementChecker lets the entry service kick off award evaluation after
// a save without a hard dependency on the achievement service.
type achievementChecker interface {
	CheckAchievements(ctx context.Context, participantID uuid.UUID, now time.Time) ([]*achievement.Achievement, error)
}

type EntryService struct {
	db         *pgxpool.Pool
	challenges *ChallengeService
	checker    achievementChecker
	notifier   utils.NotificationCreator
}

func NewEntryService(db *pgxpool.Pool, challenges *ChallengeService) *EntryService {
	return &EntryService{db: db, challenges: challenges}
}

// SetAchievementChecker wires the post-save award evaluation. Optional; the
// save path works without it.
func (s *EntryService) SetAchievementChecker(c achievementChecker) {
	s.checker = c
}

// SetNotificationCreator wires streak milestone fan-out. Optional.
func (s *EntryService) SetNotificationCreator(n utils.NotificationCreator) {
	s.notifier = n
}

// SaveDailyEntry creates or replaces the participant's entry for one calendar
// date. Validation failures block the save entirely; a locked entry is never
// overwritten.
func (s *EntryService) SaveDailyEntry(ctx context.Context, clerkID string, req *entry.SaveEntryRequest, now time.Time) (*entry.SaveEntryResponse, error) {
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("invalid challenge id: %w", err)
	}

	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	ch, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	entryDate, err := engperiod.ParseLocalDate(req.EntryDate, now.Location())
	if err != nil {
		return nil, err
	}

	today := engperiod.DateOnly(now)
	if entryDate.After(today) {
		return nil, fmt.Errorf("cannot log an entry for a future date")
	}
	if entryDate.Before(engperiod.DateOnly(ch.StartDate)) || entryDate.After(engperiod.DateOnly(ch.EndDate)) {
		return nil, fmt.Errorf("entry date is outside the challenge window")
	}

	allTasks, err := s.challenges.GetTasks(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	tiers, err := s.challenges.GetTierTable(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	dailyTasks := task.FilterByFrequency(allTasks, task.FrequencyDaily)

	metricData, err := resolveMetricData(dailyTasks, req.MetricData)
	if err != nil {
		return nil, err
	}

	score := scoring.ScoreEntry(dailyTasks, metricData, ch.Bonus, tiers, p.CurrentStreak)
	isCompleted := requiredTasksSubmitted(dailyTasks, metricData)

	metricJSON, err := json.Marshal(metricData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metric data: %w", err)
	}

	// The WHERE clause on the conflict update makes a locked row win: the
	// upsert then returns no rows and we surface ErrEntryLocked.
	query := `
	INSERT INTO daily_entries
		(id, participant_id, challenge_id, entry_date, metric_data,
		 is_completed, is_locked, points_earned, bonus_points, submitted_at)
	VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8, $9)
	ON CONFLICT (participant_id, entry_date) DO UPDATE SET
		metric_data = EXCLUDED.metric_data,
		is_completed = EXCLUDED.is_completed,
		points_earned = EXCLUDED.points_earned,
		bonus_points = EXCLUDED.bonus_points,
		submitted_at = EXCLUDED.submitted_at
	WHERE daily_entries.is_locked = false
	RETURNING id
	`

	var entryID uuid.UUID
	err = s.db.QueryRow(ctx, query,
		uuid.New(), p.ID, challengeID, entryDate, metricJSON,
		isCompleted, score.BasePoints, score.BonusPoints, now,
	).Scan(&entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryLocked
		}
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	current, longest, total, err := s.refreshParticipantScore(ctx, p.ID, p.LongestStreak, now)
	if err != nil {
		return nil, err
	}

	s.checkAchievementsAsync(p.ID, now)
	if s.notifier != nil && current > p.CurrentStreak {
		go utils.StreakMilestoneReached(s.db, s.notifier, p.ID, current)
	}

	return &entry.SaveEntryResponse{
		EntryID:       entryID,
		BasePoints:    score.BasePoints,
		BonusPoints:   score.BonusPoints,
		CurrentStreak: current,
		LongestStreak: longest,
		TotalPoints:   total,
	}, nil
}

// DeleteDailyEntry removes an unlocked entry and re-derives the streak and
// total from the remaining rows. The longest streak never goes back down.
func (s *EntryService) DeleteDailyEntry(ctx context.Context, clerkID string, challengeID uuid.UUID, date string, now time.Time) error {
	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return err
	}

	entryDate, err := engperiod.ParseLocalDate(date, now.Location())
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`DELETE FROM daily_entries WHERE participant_id = $1 AND entry_date = $2 AND is_locked = false`,
		p.ID, entryDate,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		var locked bool
		err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM daily_entries WHERE participant_id = $1 AND entry_date = $2 AND is_locked = true)`,
			p.ID, entryDate,
		).Scan(&locked)
		if err == nil && locked {
			return ErrEntryLocked
		}
		return fmt.Errorf("entry not found")
	}

	_, _, _, err = s.refreshParticipantScore(ctx, p.ID, p.LongestStreak, now)
	return err
}

func (s *EntryService) GetDailyEntry(ctx context.Context, clerkID string, challengeID uuid.UUID, date string, now time.Time) (*entry.DailyEntry, error) {
	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	entryDate, err := engperiod.ParseLocalDate(date, now.Location())
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, participant_id, challenge_id, entry_date, metric_data,
		is_completed, is_locked, points_earned, bonus_points, submitted_at
	FROM daily_entries
	WHERE participant_id = $1 AND entry_date = $2
	`

	e, err := scanEntry(s.db.QueryRow(ctx, query, p.ID, entryDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("entry not found")
		}
		return nil, err
	}
	return e, nil
}

// CompletePeriodicTask marks a weekly/monthly task done for the period
// containing now. Completing the same period twice is a conflict, not a
// double award.
func (s *EntryService) CompletePeriodicTask(ctx context.Context, clerkID string, req *entry.CompletePeriodicRequest, now time.Time) (*entry.PeriodicCompletion, error) {
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("invalid challenge id: %w", err)
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}

	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	t, err := s.taskByID(ctx, challengeID, taskID)
	if err != nil {
		return nil, err
	}

	pd, ok := engperiod.For(t.Frequency, now)
	if !ok {
		return nil, fmt.Errorf("task %q is not a weekly or monthly task", t.Name)
	}

	if err := validateValueKind(t, req.Value); err != nil {
		return nil, err
	}

	tiers, err := s.challenges.GetTierTable(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	points := scoring.ScoreMetric(t, req.Value, tiers[t.ID])

	valueJSON, err := json.Marshal(req.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	query := `
	INSERT INTO periodic_completions
		(id, participant_id, task_id, frequency, period_start, value, points_earned, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (participant_id, task_id, period_start) DO NOTHING
	`

	c := &entry.PeriodicCompletion{
		ID:            uuid.New(),
		ParticipantID: p.ID,
		TaskID:        taskID,
		Frequency:     t.Frequency,
		PeriodStart:   pd.Key,
		Value:         req.Value,
		PointsEarned:  points,
		CompletedAt:   now,
	}

	result, err := s.db.Exec(ctx, query,
		c.ID, c.ParticipantID, c.TaskID, c.Frequency, c.PeriodStart, valueJSON, c.PointsEarned, c.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("task already completed for this period")
	}

	if _, _, _, err := s.refreshParticipantScore(ctx, p.ID, p.LongestStreak, now); err != nil {
		return nil, err
	}
	s.checkAchievementsAsync(p.ID, now)

	return c, nil
}

// CompleteOnetimeTask marks a onetime task done, once per participant for the
// lifetime of the challenge.
func (s *EntryService) CompleteOnetimeTask(ctx context.Context, clerkID string, req *entry.CompleteOnetimeRequest, now time.Time) (*entry.OnetimeCompletion, error) {
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("invalid challenge id: %w", err)
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}

	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	t, err := s.taskByID(ctx, challengeID, taskID)
	if err != nil {
		return nil, err
	}
	if t.Frequency != task.FrequencyOnetime {
		return nil, fmt.Errorf("task %q is not a onetime task", t.Name)
	}
	if t.Deadline != nil && now.After(*t.Deadline) {
		return nil, fmt.Errorf("task deadline has passed")
	}

	if err := validateValueKind(t, req.Value); err != nil {
		return nil, err
	}

	tiers, err := s.challenges.GetTierTable(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	points := scoring.ScoreMetric(t, req.Value, tiers[t.ID])

	valueJSON, err := json.Marshal(req.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	query := `
	INSERT INTO onetime_completions (id, participant_id, task_id, value, points_earned, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (participant_id, task_id) DO NOTHING
	`

	c := &entry.OnetimeCompletion{
		ID:            uuid.New(),
		ParticipantID: p.ID,
		TaskID:        taskID,
		Value:         req.Value,
		PointsEarned:  points,
		CompletedAt:   now,
	}

	result, err := s.db.Exec(ctx, query, c.ID, c.ParticipantID, c.TaskID, valueJSON, c.PointsEarned, c.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("task already completed")
	}

	if _, _, _, err := s.refreshParticipantScore(ctx, p.ID, p.LongestStreak, now); err != nil {
		return nil, err
	}
	s.checkAchievementsAsync(p.ID, now)

	return c, nil
}

// UndoOnetimeTask deletes the completion row; the points come back out of the
// total on the next re-sum.
func (s *EntryService) UndoOnetimeTask(ctx context.Context, clerkID string, challengeID, taskID uuid.UUID, now time.Time) error {
	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`DELETE FROM onetime_completions WHERE participant_id = $1 AND task_id = $2`,
		p.ID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to undo completion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("completion not found")
	}

	_, _, _, err = s.refreshParticipantScore(ctx, p.ID, p.LongestStreak, now)
	return err
}

func (s *EntryService) taskByID(ctx context.Context, challengeID, taskID uuid.UUID) (*task.Task, error) {
	tasks, err := s.challenges.GetTasks(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task not found in challenge")
}

// refreshParticipantScore re-derives the streak pair and re-sums the point
// total from the completion rows, then persists all three. Derived state is
// never incremented in place.
func (s *EntryService) refreshParticipantScore(ctx context.Context, participantID uuid.UUID, storedLongest int, now time.Time) (current, longest, total int, err error) {
	rows, err := s.db.Query(ctx,
		`SELECT entry_date FROM daily_entries
		 WHERE participant_id = $1 AND is_completed = true
		 ORDER BY entry_date DESC`,
		participantID,
	)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to fetch entry dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return 0, 0, 0, fmt.Errorf("failed to scan entry date: %w", err)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return 0, 0, 0, fmt.Errorf("error iterating entry dates: %w", err)
	}

	current, longest = streak.Calculate(dates, now, storedLongest)

	query := `
	UPDATE participants p SET
		current_streak = $2,
		longest_streak = $3,
		total_points =
			COALESCE((SELECT SUM(points_earned + bonus_points) FROM daily_entries
				WHERE participant_id = p.id AND is_completed = true), 0)
			+ COALESCE((SELECT SUM(points_earned) FROM periodic_completions
				WHERE participant_id = p.id), 0)
			+ COALESCE((SELECT SUM(points_earned) FROM onetime_completions
				WHERE participant_id = p.id), 0)
	WHERE p.id = $1
	RETURNING total_points
	`

	err = s.db.QueryRow(ctx, query, participantID, current, longest).Scan(&total)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to update participant score: %w", err)
	}
	return current, longest, total, nil
}

// checkAchievementsAsync runs award evaluation off the request path. A failed
// check is logged and retried implicitly on the next save.
func (s *EntryService) checkAchievementsAsync(participantID uuid.UUID, now time.Time) {
	if s.checker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if _, err := s.checker.CheckAchievements(ctx, participantID, now); err != nil {
			log.Printf("achievement check failed for participant %s: %v", participantID, err)
		}
	}()
}

// resolveMetricData converts the wire map (string task ids) to engine form
// and validates it against the task list. Any violation blocks the save.
func resolveMetricData(dailyTasks []*task.Task, raw map[string]task.MetricValue) (map[uuid.UUID]task.MetricValue, error) {
	byID := make(map[uuid.UUID]*task.Task, len(dailyTasks))
	for _, t := range dailyTasks {
		byID[t.ID] = t
	}

	data := make(map[uuid.UUID]task.MetricValue, len(raw))
	for k, v := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("invalid task id %q: %w", k, err)
		}
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("task %s is not a daily task of this challenge", id)
		}
		if err := validateValueKind(t, v); err != nil {
			return nil, err
		}
		data[id] = v
	}

	for _, t := range dailyTasks {
		if t.Required {
			if v, ok := data[t.ID]; !ok || !v.HasValue() {
				return nil, fmt.Errorf("required task %q has no value", t.Name)
			}
		}
	}
	return data, nil
}

// requiredTasksSubmitted reports whether every required daily task carries a
// submitted value; that is what makes the entry count as completed. Optional
// tasks never gate completion.
func requiredTasksSubmitted(dailyTasks []*task.Task, data map[uuid.UUID]task.MetricValue) bool {
	for _, t := range dailyTasks {
		if !t.Required {
			continue
		}
		if v, ok := data[t.ID]; !ok || !v.HasValue() {
			return false
		}
	}
	return true
}

// validateValueKind checks that a submitted value matches the task's declared
// type. An absent value is always acceptable here; required-ness is checked
// separately.
func validateValueKind(t *task.Task, v task.MetricValue) error {
	if v.Kind == task.ValueNone {
		return nil
	}

	want := map[task.TaskType]task.ValueKind{
		task.TypeBoolean:  task.ValueBool,
		task.TypeNumber:   task.ValueNumber,
		task.TypeDuration: task.ValueDuration,
		task.TypeChoice:   task.ValueChoice,
		task.TypeText:     task.ValueText,
		task.TypeFile:     task.ValueFiles,
	}[t.Type]

	if want == "" {
		// Unknown task type: let the scorer's fallback deal with it.
		return nil
	}
	if v.Kind != want {
		return fmt.Errorf("task %q expects a %s value, got %s", t.Name, want, v.Kind)
	}
	return nil
}

func scanEntry(row pgx.Row) (*entry.DailyEntry, error) {
	e := &entry.DailyEntry{}
	var metricJSON []byte
	err := row.Scan(
		&e.ID,
		&e.ParticipantID,
		&e.ChallengeID,
		&e.EntryDate,
		&metricJSON,
		&e.IsCompleted,
		&e.IsLocked,
		&e.PointsEarned,
		&e.BonusPoints,
		&e.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metricJSON) > 0 {
		if err := json.Unmarshal(metricJSON, &e.MetricData); err != nil {
			return nil, fmt.Errorf("failed to decode metric data: %w", err)
		}
	}
	return e, nil
}
