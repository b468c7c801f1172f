package logic

import (
	"fmt"
	"strings"
	"time"

	"innerbloom-backend/internal/store"
)

// PointsPerCheckin is the fixed reward for a completed daily check-in.
const PointsPerCheckin = 10

// MoodEntry is the transient record submitted by a check-in. It is
// consumed once to update the ledger and not persisted itself. Stress is
// collected but nothing downstream reads it.
type MoodEntry struct {
	Mood      int      `json:"mood"`
	Energy    int      `json:"energy"`
	Sleep     int      `json:"sleep"`
	Stress    int      `json:"stress"`
	Gratitude []string `json:"gratitude"`
}

func (e MoodEntry) Validate() error {
	if e.Mood < 1 || e.Mood > 5 {
		return fmt.Errorf("mood must be 1-5")
	}
	if e.Energy < 0 || e.Energy > 100 {
		return fmt.Errorf("energy must be 0-100")
	}
	if e.Sleep < 1 || e.Sleep > 5 {
		return fmt.Errorf("sleep must be 1-5")
	}
	if e.Stress < 1 || e.Stress > 5 {
		return fmt.Errorf("stress must be 1-5")
	}
	if len(e.Gratitude) != 3 {
		return fmt.Errorf("gratitude must list exactly 3 items")
	}
	for _, g := range e.Gratitude {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("gratitude items must not be blank")
		}
	}
	return nil
}

// Progress is the user's running streak/points state.
type Progress struct {
	Streak          int    `json:"streak"`
	WellnessPoints  int    `json:"wellness_points"`
	LastCheckinDate string `json:"last_checkin_date"`
}

// Ledger derives "already checked in today" from the stored last check-in
// date and applies check-in rewards. It performs no duplicate guard of its
// own; callers must not invoke CompleteCheckin twice on one calendar day.
type Ledger struct {
	store *store.Scoped
	now   func() time.Time
}

func NewLedger(s *store.Scoped) *Ledger {
	return &Ledger{store: s, now: time.Now}
}

// today is the local calendar date, not UTC.
func (l *Ledger) today() string {
	return l.now().Format("2006-01-02")
}

func (l *Ledger) CompletedToday(user string) bool {
	last, err := store.Read(l.store, user, keyLastCheckinDate, "")
	if err != nil {
		return false
	}
	return last == l.today()
}

func (l *Ledger) Progress(user string) Progress {
	streak, _ := store.Read(l.store, user, keyStreak, 0)
	points, _ := store.Read(l.store, user, keyWellnessPoints, 0)
	last, _ := store.Read(l.store, user, keyLastCheckinDate, "")
	return Progress{Streak: streak, WellnessPoints: points, LastCheckinDate: last}
}

// CompleteCheckin applies one completed check-in: streak goes up by
// exactly 1 regardless of date gaps, points by the fixed reward, and the
// last check-in date moves to today.
func (l *Ledger) CompleteCheckin(user string, entry MoodEntry) (Progress, error) {
	streak, _ := store.Read(l.store, user, keyStreak, 0)
	points, _ := store.Read(l.store, user, keyWellnessPoints, 0)

	streak++
	points += PointsPerCheckin
	today := l.today()

	if err := l.store.Write(user, keyStreak, streak); err != nil {
		return Progress{}, err
	}
	if err := l.store.Write(user, keyWellnessPoints, points); err != nil {
		return Progress{}, err
	}
	if err := l.store.Write(user, keyLastCheckinDate, today); err != nil {
		return Progress{}, err
	}
	return Progress{Streak: streak, WellnessPoints: points, LastCheckinDate: today}, nil
}
