// Package scoring converts submitted task values into earned points. All
// functions are pure and never panic on malformed configuration: a bad
// scoring mode degrades to binary semantics instead of failing the save.
package scoring

import (
	"log"
	"math"

	"habitClashAPI/internal/types/task"
)

// ScoreMetric returns the points earned for one task given one submitted
// value. The result is always within [0, t.Points]. A missing value scores
// zero regardless of the task being required; blocking the save on missing
// required values is the caller's validation concern.
func ScoreMetric(t *task.Task, v task.MetricValue, tiers []task.Tier) int {
	if t.Points <= 0 {
		return 0
	}
	if !v.HasValue() {
		return 0
	}

	switch t.Type {
	case task.TypeBoolean:
		if v.Kind == task.ValueBool && v.Bool {
			return t.Points
		}
		return 0

	case task.TypeNumber, task.TypeDuration:
		return scoreNumeric(t, v.Numeric(), tiers)

	case task.TypeChoice, task.TypeText, task.TypeFile:
		// Presence is the whole game for these types.
		return t.Points

	default:
		log.Printf("scoring: unknown task type %q for task %s, treating as presence-scored", t.Type, t.ID)
		return t.Points
	}
}

func scoreNumeric(t *task.Task, value float64, tiers []task.Tier) int {
	switch t.ScoringMode {
	case task.ScoringBinary:
		if meetsThreshold(t, value) {
			return t.Points
		}
		return 0

	case task.ScoringScaled:
		return scoreScaled(t, value)

	case task.ScoringTiered:
		return scoreTiered(t, value, tiers)

	default:
		log.Printf("scoring: unknown scoring mode %q for task %s, falling back to binary", t.ScoringMode, t.ID)
		if meetsThreshold(t, value) {
			return t.Points
		}
		return 0
	}
}

func meetsThreshold(t *task.Task, value float64) bool {
	switch t.ThresholdType {
	case task.ThresholdMax:
		return value <= t.Threshold
	case task.ThresholdMin:
		return value >= t.Threshold
	default:
		log.Printf("scoring: unknown threshold type %q for task %s, falling back to min", t.ThresholdType, t.ID)
		return value >= t.Threshold
	}
}

// scoreScaled gives proportional credit. For min goals the ratio is
// value/threshold; for max goals an inverse linear ramp gives full points at
// or under the threshold and zero at double the threshold.
func scoreScaled(t *task.Task, value float64) int {
	if t.Threshold <= 0 {
		// No meaningful ratio without a positive threshold.
		if meetsThreshold(t, value) {
			return t.Points
		}
		return 0
	}

	var ratio float64
	if t.ThresholdType == task.ThresholdMax {
		ratio = 1 - (value-t.Threshold)/t.Threshold
	} else {
		ratio = value / t.Threshold
	}

	ratio = clamp(ratio, 0, 1)
	return int(math.Round(float64(t.Points) * ratio))
}

// scoreTiered awards full points at/beyond the threshold and otherwise the
// best matching row of the challenge-supplied tier table. Without a table it
// behaves exactly like binary.
func scoreTiered(t *task.Task, value float64, tiers []task.Tier) int {
	if meetsThreshold(t, value) {
		return t.Points
	}

	best := 0
	for _, tier := range tiers {
		reached := value >= tier.Threshold
		if t.ThresholdType == task.ThresholdMax {
			reached = value <= tier.Threshold
		}
		if reached && tier.Points > best {
			best = tier.Points
		}
	}

	if best > t.Points {
		best = t.Points
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
