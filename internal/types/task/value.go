package task

// ValueKind tags which member of MetricValue is meaningful.
type ValueKind string

const (
	ValueBool     ValueKind = "bool"
	ValueNumber   ValueKind = "number"
	ValueDuration ValueKind = "duration"
	ValueChoice   ValueKind = "choice"
	ValueText     ValueKind = "text"
	ValueFiles    ValueKind = "files"
	ValueNone     ValueKind = ""
)

// MetricValue is the tagged union for a submitted task value. Exactly one
// field is meaningful, keyed by the task's declared type. Values are
// validated against the task type at the entry-save boundary before they
// ever reach the scorer.
type MetricValue struct {
	Kind            ValueKind `json:"kind"`
	Bool            bool      `json:"bool,omitempty"`
	Number          float64   `json:"number,omitempty"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Choices         []string  `json:"choices,omitempty"`
	Text            string    `json:"text,omitempty"`
	FileRefs        []string  `json:"file_refs,omitempty"`
}

func BoolValue(v bool) MetricValue      { return MetricValue{Kind: ValueBool, Bool: v} }
func NumberValue(v float64) MetricValue { return MetricValue{Kind: ValueNumber, Number: v} }
func DurationValue(minutes int) MetricValue {
	return MetricValue{Kind: ValueDuration, DurationMinutes: minutes}
}
func ChoiceValue(choices ...string) MetricValue {
	return MetricValue{Kind: ValueChoice, Choices: choices}
}
func TextValue(v string) MetricValue { return MetricValue{Kind: ValueText, Text: v} }
func FilesValue(refs ...string) MetricValue {
	return MetricValue{Kind: ValueFiles, FileRefs: refs}
}

// HasValue reports whether the participant actually submitted something.
// A false boolean still counts as submitted; empty choice/text/file sets
// do not.
func (v MetricValue) HasValue() bool {
	switch v.Kind {
	case ValueBool:
		return true
	case ValueNumber, ValueDuration:
		return true
	case ValueChoice:
		return len(v.Choices) > 0
	case ValueText:
		return v.Text != ""
	case ValueFiles:
		return len(v.FileRefs) > 0
	default:
		return false
	}
}

// Numeric returns the scoring-relevant magnitude for number and duration
// values. Other kinds have no magnitude and return 0.
func (v MetricValue) Numeric() float64 {
	switch v.Kind {
	case ValueNumber:
		return v.Number
	case ValueDuration:
		return float64(v.DurationMinutes)
	default:
		return 0
	}
}
