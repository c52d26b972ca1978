package services

import (
	"context"
	"fmt"
	"time"

	engcalendar "habitClashAPI/internal/engine/calendar"
	engperiod "habitClashAPI/internal/engine/period"
	"habitClashAPI/internal/types/calendar"
	"habitClashAPI/internal/types/entry"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarService struct {
	db         *pgxpool.Pool
	challenges *ChallengeService
}

func NewCalendarService(db *pgxpool.Pool, challenges *ChallengeService) *CalendarService {
	return &CalendarService{db: db, challenges: challenges}
}

// GetMonth resolves the display status of every day in one calendar month
// for the authenticated participant. Completions are loaded once for the
// whole participant; the resolver ignores rows outside each day's period.
func (s *CalendarService) GetMonth(ctx context.Context, clerkID string, challengeID uuid.UUID, year int, month time.Month, now time.Time) (*calendar.CalendarResponse, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	p, err := getParticipant(ctx, s.db, clerkID, challengeID)
	if err != nil {
		return nil, err
	}

	ch, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	allTasks, err := s.challenges.GetTasks(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	daily := task.FilterByFrequency(allTasks, task.FrequencyDaily)
	weekly := task.FilterByFrequency(allTasks, task.FrequencyWeekly)
	monthly := task.FilterByFrequency(allTasks, task.FrequencyMonthly)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	entries, err := s.entriesInRange(ctx, p.ID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*entry.DailyEntry, len(entries))
	for _, e := range entries {
		byDate[engperiod.DateOnly(e.EntryDate).Format("2006-01-02")] = e
	}

	completions, err := loadPeriodicCompletions(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}

	today := engperiod.DateOnly(now)
	resp := &calendar.CalendarResponse{
		Year:  year,
		Month: int(month),
		Days:  make([]*calendar.CalendarDay, 0, monthEnd.Day()),
	}

	for d := monthStart; !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		status := engcalendar.ResolveDayStatus(engcalendar.DayInput{
			Day:            d,
			Today:          now,
			ChallengeStart: ch.StartDate,
			ChallengeEnd:   ch.EndDate,
			Entry:          byDate[d.Format("2006-01-02")],
			Completions:    completions,
			DailyTasks:     daily,
			WeeklyTasks:    weekly,
			MonthlyTasks:   monthly,
		})

		resp.Days = append(resp.Days, &calendar.CalendarDay{
			Date:    d,
			Status:  status,
			IsToday: d.Equal(today),
		})
	}

	return resp, nil
}

func (s *CalendarService) entriesInRange(ctx context.Context, participantID uuid.UUID, from, to time.Time) ([]*entry.DailyEntry, error) {
	query := `
	SELECT id, participant_id, challenge_id, entry_date, metric_data,
		is_completed, is_locked, points_earned, bonus_points, submitted_at
	FROM daily_entries
	WHERE participant_id = $1 AND entry_date BETWEEN $2 AND $3
	ORDER BY entry_date
	`

	rows, err := s.db.Query(ctx, query, participantID, from, to)
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
