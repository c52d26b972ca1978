package period

import "time"

// Period is one week or month window. Start and End are inclusive calendar
// dates; Key is the ISO date of Start and doubles as the periodic-completion
// period key.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Key   string    `json:"key"`
}

type DueState string

const (
	DueEnded    DueState = "ended"
	DueToday    DueState = "due_today"
	DueSoon     DueState = "due_soon"
	DueUpcoming DueState = "upcoming"
)

type DueStatus struct {
	State         DueState `json:"state"`
	DaysRemaining int      `json:"days_remaining"`
}
