// Package streak derives consecutive-day streaks from completed entry dates.
package streak

import (
	"time"

	"habitClashAPI/internal/engine/period"
)

// Calculate walks completed entry dates, most-recent-first, and counts the
// leading unbroken run. The run only counts as "current" when it ends today
// or yesterday; anything older is already broken. The longest streak never
// recomputes downward, it only ratchets past the stored value.
//
// Deleting an entry means re-running this over the surviving dates; the
// stored longest still never decreases. Grace-period policies, if a
// challenge has any, are applied by the caller before the dates get here.
func Calculate(dates []time.Time, today time.Time, storedLongest int) (current, longest int) {
	longest = storedLongest

	if len(dates) == 0 {
		return 0, longest
	}

	// A run ending yesterday counts, so anchor the walk on the first
	// entry's distance from today (0 or 1).
	offset := period.DaysBetween(today, dates[0])
	if offset != 0 && offset != 1 {
		return 0, longest
	}

	for i, d := range dates {
		if period.DaysBetween(today, d) != i+offset {
			break
		}
		current++
	}

	if current > longest {
		longest = current
	}
	return current, longest
}
