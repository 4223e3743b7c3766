package countdown

import (
	"sync"
	"time"
)

// DefaultTickInterval is how often a Driver re-evaluates its schedule.
const DefaultTickInterval = time.Second

// Tick is the result of one evaluation, as handed to a Sink.
type Tick struct {
	State  PhaseState
	Events []Event
	At     time.Time
}

// Sink consumes ticks. Publish runs on the driver's goroutine while the driver
// is locked, so it must not call back into the Driver.
type Sink interface {
	Publish(tick Tick)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(tick Tick)

// Publish calls f(tick).
func (f SinkFunc) Publish(tick Tick) {
	f(tick)
}

// DriverConfig contains runtime options for Driver.
type DriverConfig struct {
	TickInterval time.Duration
	Clock        Clock
}

// Driver evaluates one schedule on a fixed interval and publishes every result.
// Each Driver owns its own OneShotFlags, so a replacement session must use a
// new Driver.
type Driver struct {
	mu       sync.Mutex
	schedule ExamSchedule
	flags    OneShotFlags
	sink     Sink
	clock    Clock
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	last     Tick
	hasLast  bool
}

// NewDriver creates a Driver for schedule that publishes to sink.
func NewDriver(schedule ExamSchedule, sink Sink, config DriverConfig) *Driver {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.Clock == nil {
		config.Clock = SystemClock
	}
	if sink == nil {
		sink = SinkFunc(func(Tick) {})
	}

	return &Driver{
		schedule: schedule,
		sink:     sink,
		clock:    config.Clock,
		interval: config.TickInterval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Schedule returns the schedule being counted down.
func (driver *Driver) Schedule() ExamSchedule {
	return driver.schedule
}

// Start publishes one tick immediately and then one per interval until Stop.
// Calling Start more than once, or after Stop, does nothing.
func (driver *Driver) Start() {
	driver.mu.Lock()
	if driver.running || driver.stopped {
		driver.mu.Unlock()
		return
	}
	driver.running = true
	ticker := driver.clock.NewTicker(driver.interval)
	driver.tickLocked(driver.clock.Now())
	driver.mu.Unlock()

	go driver.run(ticker)
}

// Stop halts the driver. Once Stop returns no further tick is published.
// It is safe to call repeatedly and from any goroutine except the sink.
func (driver *Driver) Stop() {
	driver.mu.Lock()
	if driver.stopped {
		driver.mu.Unlock()
		return
	}
	driver.stopped = true
	wasRunning := driver.running
	close(driver.stopCh)
	driver.mu.Unlock()

	if wasRunning {
		<-driver.doneCh
	}
}

// Stopped reports whether Stop has been called.
func (driver *Driver) Stopped() bool {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.stopped
}

// Snapshot returns the most recently published tick.
func (driver *Driver) Snapshot() (Tick, bool) {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.last, driver.hasLast
}

// Flags returns a copy of the driver's one-shot flags.
func (driver *Driver) Flags() OneShotFlags {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.flags
}

func (driver *Driver) run(ticker Ticker) {
	defer close(driver.doneCh)
	defer ticker.Stop()

	for {
		select {
		case <-driver.stopCh:
			return
		case <-ticker.C():
			driver.tick()
		}
	}
}

func (driver *Driver) tick() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	if driver.stopped {
		return
	}
	driver.tickLocked(driver.clock.Now())
}

func (driver *Driver) tickLocked(now time.Time) {
	state, events := Evaluate(now, driver.schedule, &driver.flags)
	tick := Tick{State: state, Events: events, At: now}
	driver.last = tick
	driver.hasLast = true
	driver.sink.Publish(tick)
}
