package timer

import (
	"math"
	"sync"
	"time"
)

// Phase is one step of a repeating cycle.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Tick reports the phase currently running and the whole ticks left in it,
// counting down from the phase's full length.
type Tick struct {
	Phase     string
	Remaining int
}

// Sequencer runs phases in order, wrapping to the first after the last,
// until stopped. One goroutine owns both the per-tick countdown and the
// phase transition, so Stop cancels them together; a late transition can
// never fire after Stop returns the stop channel closed.
type Sequencer struct {
	phases   []Phase
	interval time.Duration
	out      func(Tick)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSequencer builds a sequencer over the given phases. Phases with a
// non-positive duration are skipped. interval is the tick length (one
// second in production; tests shrink it). out receives every tick,
// including the entry tick of each phase, in order.
func NewSequencer(phases []Phase, interval time.Duration, out func(Tick)) *Sequencer {
	kept := make([]Phase, 0, len(phases))
	for _, p := range phases {
		if p.Duration > 0 {
			kept = append(kept, p)
		}
	}
	return &Sequencer{
		phases:   kept,
		interval: interval,
		out:      out,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sequencer) Start() {
	go s.run()
}

// Stop cancels the cycle. No tick is delivered after Stop returns and the
// run loop has exited; Done() reports that exit.
func (s *Sequencer) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once the run loop has fully exited.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

func (s *Sequencer) ticksFor(p Phase) int {
	return int(math.Ceil(float64(p.Duration) / float64(s.interval)))
}

func (s *Sequencer) run() {
	defer close(s.done)
	if len(s.phases) == 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	idx := 0
	remaining := s.ticksFor(s.phases[idx])
	s.out(Tick{Phase: s.phases[idx].Name, Remaining: remaining})

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			remaining--
			if remaining <= 0 {
				// Next phase starts immediately, no gap.
				idx = (idx + 1) % len(s.phases)
				remaining = s.ticksFor(s.phases[idx])
			}
			s.out(Tick{Phase: s.phases[idx].Name, Remaining: remaining})
		}
	}
}
