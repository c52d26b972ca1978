package streak

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Scenario A: entries on the 10th, 9th, 8th with today the 10th.
func TestThreeDayRun(t *testing.T) {
	dates := []time.Time{
		date(2024, time.January, 10),
		date(2024, time.January, 9),
		date(2024, time.January, 8),
	}

	current, longest := Calculate(dates, date(2024, time.January, 10), 0)
	if current != 3 {
		t.Errorf("current = %d, want 3", current)
	}
	if longest != 3 {
		t.Errorf("longest = %d, want 3", longest)
	}
}

// Scenario B: gap on the 9th breaks the run after today's entry.
func TestGapBreaksRun(t *testing.T) {
	dates := []time.Time{
		date(2024, time.January, 10),
		date(2024, time.January, 8),
		date(2024, time.January, 7),
	}

	current, _ := Calculate(dates, date(2024, time.January, 10), 0)
	if current != 1 {
		t.Errorf("current = %d, want 1", current)
	}
}

func TestRunEndingYesterdayStillCurrent(t *testing.T) {
	dates := []time.Time{
		date(2024, time.January, 9),
		date(2024, time.January, 8),
	}

	current, _ := Calculate(dates, date(2024, time.January, 10), 0)
	if current != 2 {
		t.Errorf("current = %d, want 2 (run ending yesterday counts)", current)
	}
}

func TestStaleRunIsNotCurrent(t *testing.T) {
	dates := []time.Time{
		date(2024, time.January, 5),
		date(2024, time.January, 4),
		date(2024, time.January, 3),
	}

	current, longest := Calculate(dates, date(2024, time.January, 10), 7)
	if current != 0 {
		t.Errorf("current = %d, want 0 (run ended five days ago)", current)
	}
	if longest != 7 {
		t.Errorf("longest = %d, want stored 7 untouched", longest)
	}
}

func TestNoEntries(t *testing.T) {
	current, longest := Calculate(nil, date(2024, time.January, 10), 4)
	if current != 0 || longest != 4 {
		t.Errorf("got %d/%d, want 0 current and longest unchanged at 4", current, longest)
	}
}

// Property: longest only ratchets, never decreases.
func TestLongestNeverDecreases(t *testing.T) {
	histories := [][]time.Time{
		nil,
		{date(2024, time.January, 10)},
		{date(2024, time.January, 10), date(2024, time.January, 9)},
		{date(2024, time.January, 2)},
	}

	for _, h := range histories {
		for stored := 0; stored <= 5; stored++ {
			_, longest := Calculate(h, date(2024, time.January, 10), stored)
			if longest < stored {
				t.Fatalf("longest %d dropped below stored %d for history %v", longest, stored, h)
			}
		}
	}
}

func TestLongestRatchetsForward(t *testing.T) {
	dates := []time.Time{
		date(2024, time.January, 10),
		date(2024, time.January, 9),
		date(2024, time.January, 8),
		date(2024, time.January, 7),
	}

	_, longest := Calculate(dates, date(2024, time.January, 10), 2)
	if longest != 4 {
		t.Errorf("longest = %d, want 4 (current run surpassed stored)", longest)
	}
}

func TestTimeOfDayIgnored(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, time.January, 10, 23, 45, 0, 0, time.UTC),
		time.Date(2024, time.January, 9, 1, 10, 0, 0, time.UTC),
	}
	today := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)

	current, _ := Calculate(dates, today, 0)
	if current != 2 {
		t.Errorf("current = %d, want 2 (entry dates are calendar dates)", current)
	}
}
