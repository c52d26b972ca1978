package scoring

import (
	"testing"

	"habitClashAPI/internal/types/challenge"
	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

func dailyBoolTask(points int, required bool) *task.Task {
	return &task.Task{
		ID:        uuid.New(),
		Type:      task.TypeBoolean,
		Frequency: task.FrequencyDaily,
		Points:    points,
		Required:  required,
	}
}

func TestScoreEntryBasePoints(t *testing.T) {
	t1 := dailyBoolTask(3, true)
	t2 := dailyBoolTask(2, false)
	t3 := numberTask(5, 20, task.ThresholdMin, task.ScoringBinary)

	data := map[uuid.UUID]task.MetricValue{
		t1.ID: task.BoolValue(true),
		t2.ID: task.BoolValue(false),
		t3.ID: task.NumberValue(25),
	}

	score := ScoreEntry([]*task.Task{t1, t2, t3}, data, challenge.BonusConfig{}, nil, 0)
	if score.BasePoints != 8 {
		t.Errorf("BasePoints = %d, want 8 (3 + 0 + 5)", score.BasePoints)
	}
	if score.BonusPoints != 0 {
		t.Errorf("BonusPoints = %d, want 0 with bonuses disabled", score.BonusPoints)
	}
}

func TestScoreEntryStreakBonusFlat(t *testing.T) {
	t1 := dailyBoolTask(1, true)
	data := map[uuid.UUID]task.MetricValue{t1.ID: task.BoolValue(true)}
	cfg := challenge.BonusConfig{EnableStreakBonus: true, StreakBonusPoints: 2}

	// Flat award does not scale with streak length.
	for _, streak := range []int{0, 1, 10} {
		score := ScoreEntry([]*task.Task{t1}, data, cfg, nil, streak)
		if score.BonusPoints != 2 {
			t.Errorf("streak=%d: BonusPoints = %d, want flat 2", streak, score.BonusPoints)
		}
	}
}

func TestScoreEntryStreakBonusPerDay(t *testing.T) {
	t1 := dailyBoolTask(1, true)
	data := map[uuid.UUID]task.MetricValue{t1.ID: task.BoolValue(true)}
	cfg := challenge.BonusConfig{
		EnableStreakBonus: true,
		StreakBonusPoints: 2,
		StreakBonusPerDay: true,
	}

	score := ScoreEntry([]*task.Task{t1}, data, cfg, nil, 5)
	if score.BonusPoints != 10 {
		t.Errorf("per-day BonusPoints = %d, want 10 (2 * 5)", score.BonusPoints)
	}

	score = ScoreEntry([]*task.Task{t1}, data, cfg, nil, 0)
	if score.BonusPoints != 0 {
		t.Errorf("per-day with zero streak = %d, want 0", score.BonusPoints)
	}
}

func TestScoreEntryPerfectDayBonus(t *testing.T) {
	req := dailyBoolTask(3, true)
	opt := dailyBoolTask(2, false)
	tasks := []*task.Task{req, opt}
	cfg := challenge.BonusConfig{EnablePerfectDayBonus: true, PerfectDayBonusPoints: 5}

	// Required task at full points: perfect even though the optional one failed.
	data := map[uuid.UUID]task.MetricValue{
		req.ID: task.BoolValue(true),
		opt.ID: task.BoolValue(false),
	}
	if score := ScoreEntry(tasks, data, cfg, nil, 0); score.BonusPoints != 5 {
		t.Errorf("BonusPoints = %d, want 5 (optional tasks don't break perfection)", score.BonusPoints)
	}

	// Required task missing: no perfect day.
	data = map[uuid.UUID]task.MetricValue{opt.ID: task.BoolValue(true)}
	if score := ScoreEntry(tasks, data, cfg, nil, 0); score.BonusPoints != 0 {
		t.Errorf("BonusPoints = %d, want 0 when a required task scored short", score.BonusPoints)
	}
}

func TestIsPerfectDayVacuouslyTrue(t *testing.T) {
	opt := dailyBoolTask(2, false)
	if !IsPerfectDay([]*task.Task{opt}, nil, nil) {
		t.Error("a day with no required tasks is perfect by definition")
	}
}

func TestScoreEntryCombinedBonuses(t *testing.T) {
	t1 := dailyBoolTask(1, true)
	data := map[uuid.UUID]task.MetricValue{t1.ID: task.BoolValue(true)}
	cfg := challenge.BonusConfig{
		EnableStreakBonus:     true,
		StreakBonusPoints:     2,
		EnablePerfectDayBonus: true,
		PerfectDayBonusPoints: 3,
	}

	score := ScoreEntry([]*task.Task{t1}, data, cfg, nil, 4)
	if score.BasePoints != 1 || score.BonusPoints != 5 {
		t.Errorf("got %+v, want base 1, bonus 5", score)
	}
}
