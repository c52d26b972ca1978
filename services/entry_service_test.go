package services

import (
	"testing"

	"habitClashAPI/internal/types/task"

	"github.com/google/uuid"
)

func dailyTask(name string, typ task.TaskType, required bool) *task.Task {
	return &task.Task{
		ID:        uuid.New(),
		Name:      name,
		Type:      typ,
		Frequency: task.FrequencyDaily,
		Required:  required,
		Points:    10,
	}
}

func TestRequiredTasksSubmitted(t *testing.T) {
	workout := dailyTask("workout", task.TypeBoolean, true)
	water := dailyTask("water", task.TypeNumber, true)
	journal := dailyTask("journal", task.TypeText, false)
	tasks := []*task.Task{workout, water, journal}

	t.Run("all required submitted", func(t *testing.T) {
		data := map[uuid.UUID]task.MetricValue{
			workout.ID: task.BoolValue(true),
			water.ID:   task.NumberValue(8),
		}
		if !requiredTasksSubmitted(tasks, data) {
			t.Error("entry with every required value should count as completed")
		}
	})

	t.Run("required task missing", func(t *testing.T) {
		data := map[uuid.UUID]task.MetricValue{
			workout.ID: task.BoolValue(true),
		}
		if requiredTasksSubmitted(tasks, data) {
			t.Error("entry missing a required value must not count as completed")
		}
	})

	t.Run("required value present but empty", func(t *testing.T) {
		mood := dailyTask("mood", task.TypeText, true)
		data := map[uuid.UUID]task.MetricValue{
			mood.ID: task.TextValue(""),
		}
		if requiredTasksSubmitted([]*task.Task{mood}, data) {
			t.Error("an empty text value does not satisfy a required task")
		}
	})

	t.Run("optional task never gates completion", func(t *testing.T) {
		data := map[uuid.UUID]task.MetricValue{
			workout.ID: task.BoolValue(true),
			water.ID:   task.NumberValue(6),
			// journal deliberately absent
		}
		if !requiredTasksSubmitted(tasks, data) {
			t.Error("missing optional task must not block completion")
		}
	})

	t.Run("false boolean still counts as submitted", func(t *testing.T) {
		data := map[uuid.UUID]task.MetricValue{
			workout.ID: task.BoolValue(false),
			water.ID:   task.NumberValue(6),
		}
		if !requiredTasksSubmitted(tasks, data) {
			t.Error("an explicit false is a submitted value, not a missing one")
		}
	})

	t.Run("no required tasks", func(t *testing.T) {
		if !requiredTasksSubmitted([]*task.Task{journal}, nil) {
			t.Error("a task list with no required tasks is always completed")
		}
	})
}

func TestResolveMetricData(t *testing.T) {
	workout := dailyTask("workout", task.TypeBoolean, true)
	tasks := []*task.Task{workout}

	t.Run("valid payload resolves", func(t *testing.T) {
		raw := map[string]task.MetricValue{
			workout.ID.String(): task.BoolValue(true),
		}
		data, err := resolveMetricData(tasks, raw)
		if err != nil {
			t.Fatalf("resolveMetricData failed: %v", err)
		}
		if !data[workout.ID].Bool {
			t.Error("resolved value lost its payload")
		}
	})

	t.Run("missing required value blocks the save", func(t *testing.T) {
		if _, err := resolveMetricData(tasks, map[string]task.MetricValue{}); err == nil {
			t.Error("expected error when a required task has no value")
		}
	})

	t.Run("unknown task id rejected", func(t *testing.T) {
		raw := map[string]task.MetricValue{
			workout.ID.String(): task.BoolValue(true),
			uuid.NewString():    task.NumberValue(1),
		}
		if _, err := resolveMetricData(tasks, raw); err == nil {
			t.Error("expected error for a value keyed by a foreign task id")
		}
	})

	t.Run("wrong value kind rejected", func(t *testing.T) {
		raw := map[string]task.MetricValue{
			workout.ID.String(): task.NumberValue(3),
		}
		if _, err := resolveMetricData(tasks, raw); err == nil {
			t.Error("expected error for a number submitted to a boolean task")
		}
	})
}
