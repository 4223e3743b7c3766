package countdown

import (
	"sync"
	"time"
)

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides the time source for a Driver.
// Tests inject a fake to step ticks deterministically.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the default Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{ticker: time.NewTicker(d)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t *systemTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *systemTicker) Stop() {
	t.ticker.Stop()
}

// FakeClock is a manually driven Clock for tests and simulations.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*FakeTicker
}

// NewFakeClock returns a FakeClock reading start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t without firing tickers.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d without firing tickers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// NewTicker returns a ticker that only fires on Fire.
func (c *FakeClock) NewTicker(time.Duration) Ticker {
	ticker := &FakeTicker{
		ch:     make(chan time.Time),
		stopCh: make(chan struct{}),
	}
	c.mu.Lock()
	c.tickers = append(c.tickers, ticker)
	c.mu.Unlock()
	return ticker
}

// Fire delivers the current time to every live ticker. It blocks until each
// ticker's reader has taken the value or the ticker is stopped.
func (c *FakeClock) Fire() {
	c.mu.Lock()
	now := c.now
	tickers := append([]*FakeTicker(nil), c.tickers...)
	c.mu.Unlock()

	for _, ticker := range tickers {
		ticker.fire(now)
	}
}

// FakeTicker is the Ticker handed out by FakeClock.
type FakeTicker struct {
	ch       chan time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// C returns the tick channel.
func (t *FakeTicker) C() <-chan time.Time {
	return t.ch
}

// Stop releases any pending Fire.
func (t *FakeTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

func (t *FakeTicker) fire(now time.Time) {
	select {
	case t.ch <- now:
	case <-t.stopCh:
	}
}
