package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innerbloom-backend/internal/logger"
	"innerbloom-backend/internal/store"
)

func newTestLedger() *Ledger {
	s := store.NewScoped(store.NewMemoryBackend(), logger.NewNop())
	return NewLedger(s)
}

func validEntry() MoodEntry {
	return MoodEntry{
		Mood:      4,
		Energy:    70,
		Sleep:     4,
		Stress:    2,
		Gratitude: []string{"a", "b", "c"},
	}
}

func TestCompleteCheckin(t *testing.T) {
	l := newTestLedger()

	assert.False(t, l.CompletedToday("ava"))

	p, err := l.CompleteCheckin("ava", validEntry())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 10, p.WellnessPoints)
	assert.Equal(t, time.Now().Format("2006-01-02"), p.LastCheckinDate)

	assert.True(t, l.CompletedToday("ava"))
	assert.False(t, l.CompletedToday("ben"))
}

func TestCompletedTodayFlipsOnDateChange(t *testing.T) {
	l := newTestLedger()

	_, err := l.CompleteCheckin("ava", validEntry())
	require.NoError(t, err)
	assert.True(t, l.CompletedToday("ava"))

	// Move the ledger's clock to the next calendar day.
	l.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }
	assert.False(t, l.CompletedToday("ava"))
}

func TestStreakIncrementsWithoutMissedDayReset(t *testing.T) {
	l := newTestLedger()

	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	for i, gap := range []int{0, 1, 5, 30} {
		day = day.AddDate(0, 0, gap)
		l.now = func() time.Time { return day }
		p, err := l.CompleteCheckin("ava", validEntry())
		require.NoError(t, err)
		// Streak counts completions, never resetting on gaps.
		assert.Equal(t, i+1, p.Streak)
	}
	assert.Equal(t, 4*PointsPerCheckin, l.Progress("ava").WellnessPoints)
}

func TestMoodEntryValidate(t *testing.T) {
	assert.NoError(t, validEntry().Validate())

	cases := []struct {
		name   string
		mutate func(*MoodEntry)
	}{
		{"mood too low", func(e *MoodEntry) { e.Mood = 0 }},
		{"mood too high", func(e *MoodEntry) { e.Mood = 6 }},
		{"energy negative", func(e *MoodEntry) { e.Energy = -1 }},
		{"energy too high", func(e *MoodEntry) { e.Energy = 101 }},
		{"sleep out of range", func(e *MoodEntry) { e.Sleep = 9 }},
		{"stress out of range", func(e *MoodEntry) { e.Stress = 0 }},
		{"two gratitude items", func(e *MoodEntry) { e.Gratitude = []string{"a", "b"} }},
		{"four gratitude items", func(e *MoodEntry) { e.Gratitude = []string{"a", "b", "c", "d"} }},
		{"blank gratitude item", func(e *MoodEntry) { e.Gratitude = []string{"a", " ", "c"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEntry()
			tc.mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}
