package logic

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// The collective ritual runs in a fixed daily UTC window.
const (
	ritualStartHourUTC    = 19
	ritualDurationMinutes = 10
	participantDrift      = 4 * time.Second
	participantFloor      = 20
)

// RitualStatus is what the dashboard card shows: whether the window is
// live right now, the countdown to the next window otherwise, and the
// simulated participant count.
type RitualStatus struct {
	Live         bool   `json:"live"`
	Countdown    string `json:"countdown"`
	Participants int    `json:"participants"`
}

// Ritual tracks the daily collective breathing window and drifts a
// simulated participant count while running.
type Ritual struct {
	mu           sync.Mutex
	participants int
	now          func() time.Time
	interval     time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func NewRitual() *Ritual {
	return &Ritual{
		participants: rand.Intn(150) + 50,
		now:          time.Now,
		interval:     participantDrift,
		stop:         make(chan struct{}),
	}
}

// Start begins the participant drift. Stop cancels it.
func (r *Ritual) Start() {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.mu.Lock()
				r.participants += rand.Intn(5) - 2
				if r.participants < participantFloor {
					r.participants = participantFloor
				}
				r.mu.Unlock()
			}
		}
	}()
}

func (r *Ritual) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Ritual) Status() RitualStatus {
	r.mu.Lock()
	participants := r.participants
	now := r.now().UTC()
	r.mu.Unlock()

	start := time.Date(now.Year(), now.Month(), now.Day(), ritualStartHourUTC, 0, 0, 0, time.UTC)
	end := start.Add(ritualDurationMinutes * time.Minute)

	if !now.Before(start) && !now.After(end) {
		return RitualStatus{Live: true, Countdown: "00:00:00", Participants: participants}
	}

	next := start
	if now.After(end) {
		next = next.AddDate(0, 0, 1)
	}
	diff := next.Sub(now)
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	seconds := int(diff.Seconds()) % 60
	return RitualStatus{
		Live:         false,
		Countdown:    fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
		Participants: participants,
	}
}
