package scoring

import (
	"testing"

	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

func numberTask(points int, threshold float64, tt task.ThresholdType, mode task.ScoringMode) *task.Task {
	return &task.Task{
		ID:            uuid.New(),
		Name:          "test metric",
		Type:          task.TypeNumber,
		Frequency:     task.FrequencyDaily,
		Points:        points,
		Threshold:     threshold,
		ThresholdType: tt,
		ScoringMode:   mode,
	}
}

func TestScoreBoolean(t *testing.T) {
	bt := &task.Task{ID: uuid.New(), Type: task.TypeBoolean, Points: 3}

	if got := ScoreMetric(bt, task.BoolValue(true), nil); got != 3 {
		t.Errorf("true = %d, want 3", got)
	}
	if got := ScoreMetric(bt, task.BoolValue(false), nil); got != 0 {
		t.Errorf("false = %d, want 0", got)
	}
	if got := ScoreMetric(bt, task.MetricValue{}, nil); got != 0 {
		t.Errorf("missing = %d, want 0", got)
	}
}

// Scenario C: number, threshold=20 min, binary, points=5.
func TestScoreBinaryMinThreshold(t *testing.T) {
	nt := numberTask(5, 20, task.ThresholdMin, task.ScoringBinary)

	if got := ScoreMetric(nt, task.NumberValue(15), nil); got != 0 {
		t.Errorf("value 15 = %d, want 0", got)
	}
	if got := ScoreMetric(nt, task.NumberValue(20), nil); got != 5 {
		t.Errorf("value 20 = %d, want 5", got)
	}
	if got := ScoreMetric(nt, task.NumberValue(100), nil); got != 5 {
		t.Errorf("value 100 = %d, want 5 (never above task points)", got)
	}
}

func TestScoreBinaryMaxThreshold(t *testing.T) {
	// e.g. "screen time under 60 minutes"
	dt := &task.Task{
		ID: uuid.New(), Type: task.TypeDuration, Points: 4,
		Threshold: 60, ThresholdType: task.ThresholdMax, ScoringMode: task.ScoringBinary,
	}

	if got := ScoreMetric(dt, task.DurationValue(45), nil); got != 4 {
		t.Errorf("45min = %d, want 4", got)
	}
	if got := ScoreMetric(dt, task.DurationValue(61), nil); got != 0 {
		t.Errorf("61min = %d, want 0", got)
	}
}

func TestScoreScaled(t *testing.T) {
	nt := numberTask(10, 100, task.ThresholdMin, task.ScoringScaled)

	cases := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{50, 5},
		{75, 8}, // round(7.5)
		{100, 10},
		{250, 10}, // clamped at full points
	}
	for _, c := range cases {
		if got := ScoreMetric(nt, task.NumberValue(c.value), nil); got != c.want {
			t.Errorf("scaled(%v) = %d, want %d", c.value, got, c.want)
		}
	}
}

func TestScoreScaledMaxGivesInverseCredit(t *testing.T) {
	mt := numberTask(10, 60, task.ThresholdMax, task.ScoringScaled)

	if got := ScoreMetric(mt, task.NumberValue(60), nil); got != 10 {
		t.Errorf("at threshold = %d, want 10", got)
	}
	if got := ScoreMetric(mt, task.NumberValue(90), nil); got != 5 {
		t.Errorf("halfway over = %d, want 5", got)
	}
	if got := ScoreMetric(mt, task.NumberValue(120), nil); got != 0 {
		t.Errorf("double threshold = %d, want 0", got)
	}
}

func TestScoreTiered(t *testing.T) {
	nt := numberTask(10, 100, task.ThresholdMin, task.ScoringTiered)
	tiers := []task.Tier{
		{Threshold: 50, Points: 4},
		{Threshold: 75, Points: 7},
	}

	if got := ScoreMetric(nt, task.NumberValue(100), tiers); got != 10 {
		t.Errorf("at threshold = %d, want 10", got)
	}
	if got := ScoreMetric(nt, task.NumberValue(80), tiers); got != 7 {
		t.Errorf("mid tier = %d, want 7", got)
	}
	if got := ScoreMetric(nt, task.NumberValue(60), tiers); got != 4 {
		t.Errorf("low tier = %d, want 4", got)
	}
	if got := ScoreMetric(nt, task.NumberValue(10), tiers); got != 0 {
		t.Errorf("below all tiers = %d, want 0", got)
	}
	// No table configured: behaves like binary.
	if got := ScoreMetric(nt, task.NumberValue(80), nil); got != 0 {
		t.Errorf("tiered without table = %d, want 0", got)
	}
}

func TestScorePresenceTypes(t *testing.T) {
	ct := &task.Task{ID: uuid.New(), Type: task.TypeChoice, Points: 2}
	tt := &task.Task{ID: uuid.New(), Type: task.TypeText, Points: 2}
	ft := &task.Task{ID: uuid.New(), Type: task.TypeFile, Points: 2}

	if got := ScoreMetric(ct, task.ChoiceValue("run"), nil); got != 2 {
		t.Errorf("choice = %d, want 2", got)
	}
	if got := ScoreMetric(ct, task.ChoiceValue(), nil); got != 0 {
		t.Errorf("empty choice = %d, want 0", got)
	}
	if got := ScoreMetric(tt, task.TextValue("did it"), nil); got != 2 {
		t.Errorf("text = %d, want 2", got)
	}
	if got := ScoreMetric(tt, task.TextValue(""), nil); got != 0 {
		t.Errorf("empty text = %d, want 0", got)
	}
	if got := ScoreMetric(ft, task.FilesValue("proof.jpg"), nil); got != 2 {
		t.Errorf("file = %d, want 2", got)
	}
}

// Unknown modes must never crash a save; they degrade to binary/min.
func TestScoreUnknownConfigFallsBack(t *testing.T) {
	nt := numberTask(5, 20, "sideways", "quantum")

	if got := ScoreMetric(nt, task.NumberValue(25), nil); got != 5 {
		t.Errorf("unknown config, value over threshold = %d, want 5", got)
	}
	if got := ScoreMetric(nt, task.NumberValue(10), nil); got != 0 {
		t.Errorf("unknown config, value under threshold = %d, want 0", got)
	}
}

// Property: 0 <= ScoreMetric <= task.Points across a value sweep.
func TestScoreBounds(t *testing.T) {
	tasks := []*task.Task{
		numberTask(5, 20, task.ThresholdMin, task.ScoringBinary),
		numberTask(5, 20, task.ThresholdMax, task.ScoringBinary),
		numberTask(7, 30, task.ThresholdMin, task.ScoringScaled),
		numberTask(7, 30, task.ThresholdMax, task.ScoringScaled),
		numberTask(9, 50, task.ThresholdMin, task.ScoringTiered),
	}
	tiers := []task.Tier{{Threshold: 10, Points: 3}, {Threshold: 25, Points: 6}}

	for _, tk := range tasks {
		for v := -50.0; v <= 200; v += 7 {
			got := ScoreMetric(tk, task.NumberValue(v), tiers)
			if got < 0 || got > tk.Points {
				t.Fatalf("ScoreMetric(mode=%s/%s, value=%v) = %d out of [0,%d]",
					tk.ScoringMode, tk.ThresholdType, v, got, tk.Points)
			}
		}
	}
}
