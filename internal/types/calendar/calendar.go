package calendar

import "time"

// DayStatus is the single display state for one (participant, day) cell.
type DayStatus string

const (
	StatusOutside       DayStatus = "outside"
	StatusAllComplete   DayStatus = "all_complete"
	StatusCompleted     DayStatus = "completed"
	StatusPartial       DayStatus = "partial"
	StatusLate          DayStatus = "late"
	StatusPeriodPending DayStatus = "period_pending"
	StatusToday         DayStatus = "today"
	StatusMissed        DayStatus = "missed"
)

type CalendarDay struct {
	Date    time.Time `json:"date"`
	Status  DayStatus `json:"status"`
	IsToday bool      `json:"is_today"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
