package achievements

import (
	"testing"
	"time"

	"habitClashAPI/internal/types/achievement"
	"habitClashAPI/internal/types/stats"

	"github.com/google/uuid"
)

func def(tt achievement.TriggerType, value int) *achievement.Achievement {
	return &achievement.Achievement{
		ID:           uuid.New(),
		Name:         string(tt),
		TriggerType:  tt,
		TriggerValue: value,
	}
}

func TestMeetsRequirementTable(t *testing.T) {
	s := &stats.ParticipantStats{
		CurrentStreak:     3,
		LongestStreak:     8,
		TotalPoints:       120,
		EntriesCount:      15,
		PerfectDays:       4,
		CompletionRate:    75,
		EarlyEntries:      2,
		LateEntries:       6,
		ChallengeComplete: false,
	}

	cases := []struct {
		a    *achievement.Achievement
		want bool
	}{
		{def(achievement.TriggerStreakDays, 5), true},  // longest 8 qualifies
		{def(achievement.TriggerStreakDays, 9), false},
		{def(achievement.TriggerTotalPoints, 100), true},
		{def(achievement.TriggerTotalPoints, 121), false},
		{def(achievement.TriggerEntriesLogged, 15), true},
		{def(achievement.TriggerPerfectDays, 5), false},
		{def(achievement.TriggerCompletionRate, 75), true},
		{def(achievement.TriggerChallengeComplete, 0), false},
		{def(achievement.TriggerEarlyEntries, 2), true},
		{def(achievement.TriggerLateEntries, 7), false},
		{def("mystery_trigger", 1), false}, // unknown types never qualify
	}

	for _, c := range cases {
		if got := MeetsRequirement(c.a, s); got != c.want {
			t.Errorf("MeetsRequirement(%s, %d) = %v, want %v",
				c.a.TriggerType, c.a.TriggerValue, got, c.want)
		}
	}
}

// Scenario E: total_points=100 crossed exactly, not previously earned.
func TestEvaluateNewAwardsOnce(t *testing.T) {
	a := def(achievement.TriggerTotalPoints, 100)
	s := &stats.ParticipantStats{TotalPoints: 100}
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	newly := EvaluateNew([]*achievement.Achievement{a}, s, map[uuid.UUID]bool{}, now)
	if len(newly) != 1 {
		t.Fatalf("newly earned = %d, want exactly 1", len(newly))
	}
	if newly[0].Achievement.ID != a.ID {
		t.Error("wrong achievement returned")
	}
	if !newly[0].EarnedAt.Equal(now) {
		t.Errorf("EarnedAt = %v, want evaluation time %v", newly[0].EarnedAt, now)
	}
}

// Idempotency property: the second evaluation with the updated earned set
// yields an empty list.
func TestEvaluateNewIdempotent(t *testing.T) {
	defs := []*achievement.Achievement{
		def(achievement.TriggerTotalPoints, 50),
		def(achievement.TriggerEntriesLogged, 5),
	}
	s := &stats.ParticipantStats{TotalPoints: 80, EntriesCount: 10}
	now := time.Now()

	earned := map[uuid.UUID]bool{}
	first := EvaluateNew(defs, s, earned, now)
	if len(first) != 2 {
		t.Fatalf("first pass = %d, want 2", len(first))
	}

	for _, e := range first {
		earned[e.Achievement.ID] = true
	}
	if second := EvaluateNew(defs, s, earned, now); len(second) != 0 {
		t.Errorf("second pass = %d, want 0", len(second))
	}
}

func TestEvaluateNewPreservesDefinitionOrder(t *testing.T) {
	a1 := def(achievement.TriggerEntriesLogged, 1)
	a2 := def(achievement.TriggerEntriesLogged, 2)
	a3 := def(achievement.TriggerEntriesLogged, 99)
	s := &stats.ParticipantStats{EntriesCount: 10}

	newly := EvaluateNew([]*achievement.Achievement{a1, a2, a3}, s, nil, time.Now())
	if len(newly) != 2 {
		t.Fatalf("newly = %d, want 2", len(newly))
	}
	if newly[0].Achievement.ID != a1.ID || newly[1].Achievement.ID != a2.ID {
		t.Error("evaluation order must follow definition order")
	}
}

func TestProgressMatchesRequirementMapping(t *testing.T) {
	s := &stats.ParticipantStats{
		CurrentStreak: 2,
		LongestStreak: 6,
		TotalPoints:   40,
	}

	p := Progress(def(achievement.TriggerStreakDays, 10), s)
	if p.Current != 6 || p.Target != 10 {
		t.Errorf("streak progress = %+v, want 6/10 (longest counts)", p)
	}

	p = Progress(def(achievement.TriggerTotalPoints, 30), s)
	if p.Current != 30 || p.Target != 30 {
		t.Errorf("points progress = %+v, want capped 30/30", p)
	}

	// A full bar must always mean the requirement is met.
	a := def(achievement.TriggerTotalPoints, 30)
	if p.Current == p.Target && !MeetsRequirement(a, s) {
		t.Error("progress and requirement disagree")
	}
}

func TestProgressChallengeComplete(t *testing.T) {
	a := def(achievement.TriggerChallengeComplete, 0)

	p := Progress(a, &stats.ParticipantStats{ChallengeComplete: false})
	if p.Current != 0 || p.Target != 1 {
		t.Errorf("incomplete = %+v, want 0/1", p)
	}
	p = Progress(a, &stats.ParticipantStats{ChallengeComplete: true})
	if p.Current != 1 || p.Target != 1 {
		t.Errorf("complete = %+v, want 1/1", p)
	}
}
