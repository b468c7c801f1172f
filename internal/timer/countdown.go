package timer

import (
	"sync"
	"time"
)

// Countdown decrements a fixed starting count once per tick while running
// and not paused. At zero it freezes and fires the terminal callback
// exactly once. It never goes below zero.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	paused    bool
	fired     bool
	stopped   bool

	interval   time.Duration
	onTick     func(remaining int)
	onTerminal func()

	stopOnce sync.Once
	stop     chan struct{}
}

// NewCountdown builds a countdown of seconds ticks. onTick may be nil;
// onTerminal runs on the countdown's goroutine when the count reaches zero.
func NewCountdown(seconds int, interval time.Duration, onTick func(int), onTerminal func()) *Countdown {
	return &Countdown{
		remaining:  seconds,
		interval:   interval,
		onTick:     onTick,
		onTerminal: onTerminal,
		stop:       make(chan struct{}),
	}
}

func (c *Countdown) Start() {
	go c.run()
}

// Pause freezes the count, e.g. while a terminal or confirmation dialog is
// open. Ticks that arrive while paused are discarded, not queued.
func (c *Countdown) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *Countdown) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

// Stop cancels the countdown for good. Idempotent.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.paused || c.stopped || c.fired {
				c.mu.Unlock()
				continue
			}
			if c.remaining > 0 {
				c.remaining--
			}
			remaining := c.remaining
			terminal := remaining == 0
			if terminal {
				c.fired = true
			}
			c.mu.Unlock()

			if c.onTick != nil {
				c.onTick(remaining)
			}
			if terminal {
				if c.onTerminal != nil {
					c.onTerminal()
				}
				return
			}
		}
	}
}
