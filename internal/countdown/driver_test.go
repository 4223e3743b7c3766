package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	ticks chan Tick
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ticks: make(chan Tick, 16)}
}

func (s *recordingSink) Publish(tick Tick) {
	s.ticks <- tick
}

func (s *recordingSink) next(t *testing.T) Tick {
	t.Helper()
	select {
	case tick := <-s.ticks:
		return tick
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
		return Tick{}
	}
}

func TestDriverPublishesImmediatelyOnStart(t *testing.T) {
	clock := NewFakeClock(at(8, 59, 0))
	sink := newRecordingSink()
	driver := NewDriver(morningExam(t), sink, DriverConfig{Clock: clock})
	defer driver.Stop()

	driver.Start()

	tick := sink.next(t)
	assert.Equal(t, PhaseNotStarted, tick.State.Phase)
	assert.Equal(t, Remaining{Minutes: 1}, tick.State.Remaining)
	assert.Equal(t, at(8, 59, 0), tick.At)

	snapshot, ok := driver.Snapshot()
	require.True(t, ok)
	assert.Equal(t, tick.State, snapshot.State)
}

func TestDriverZeroScheduleEndsImmediately(t *testing.T) {
	clock := NewFakeClock(at(9, 0, 0))
	sink := newRecordingSink()
	driver := NewDriver(ExamSchedule{}, sink, DriverConfig{Clock: clock})
	defer driver.Stop()

	driver.Start()
	assert.Equal(t, PhaseEnded, sink.next(t).State.Phase)

	clock.Fire()
	assert.Equal(t, PhaseEnded, sink.next(t).State.Phase)
	assert.Equal(t, ExamSchedule{}, driver.Schedule())
}

func TestDriverTicksThroughPhases(t *testing.T) {
	clock := NewFakeClock(at(10, 54, 0))
	sink := newRecordingSink()
	driver := NewDriver(morningExam(t), sink, DriverConfig{Clock: clock, TickInterval: time.Second})
	defer driver.Stop()

	driver.Start()
	first := sink.next(t)
	assert.Equal(t, PhaseInProgress, first.State.Phase)
	assert.False(t, first.State.WarningActive)
	assert.Empty(t, first.Events)

	clock.Set(at(10, 56, 0))
	clock.Fire()
	warning := sink.next(t)
	assert.True(t, warning.State.WarningActive)
	require.Len(t, warning.Events, 1)
	assert.Equal(t, EventWarningThresholdCrossed, warning.Events[0].Kind)

	clock.Advance(time.Second)
	clock.Fire()
	again := sink.next(t)
	assert.True(t, again.State.WarningActive)
	assert.Empty(t, again.Events)

	clock.Set(at(11, 0, 0))
	clock.Fire()
	ended := sink.next(t)
	assert.Equal(t, PhaseEnded, ended.State.Phase)
	require.Len(t, ended.Events, 1)
	assert.Equal(t, EventExamEnded, ended.Events[0].Kind)

	assert.Equal(t, OneShotFlags{WarningFired: true, EndedFired: true}, driver.Flags())
}

func TestDriverStopIsIdempotentAndFinal(t *testing.T) {
	clock := NewFakeClock(at(9, 30, 0))
	sink := newRecordingSink()
	driver := NewDriver(morningExam(t), sink, DriverConfig{Clock: clock})

	driver.Start()
	sink.next(t)

	driver.Stop()
	driver.Stop()
	assert.True(t, driver.Stopped())

	clock.Fire()
	select {
	case tick := <-sink.ticks:
		t.Fatalf("unexpected tick after stop: %+v", tick)
	default:
	}

	driver.Start()
	select {
	case tick := <-sink.ticks:
		t.Fatalf("unexpected tick after restart: %+v", tick)
	default:
	}
}

func TestDriverStopBeforeStart(t *testing.T) {
	driver := NewDriver(morningExam(t), nil, DriverConfig{Clock: NewFakeClock(at(9, 0, 0))})
	driver.Stop()
	driver.Start()

	_, ok := driver.Snapshot()
	assert.False(t, ok)
}

func TestDriverConcurrentStop(t *testing.T) {
	clock := NewFakeClock(at(9, 30, 0))
	driver := NewDriver(morningExam(t), SinkFunc(func(Tick) {}), DriverConfig{Clock: clock})
	driver.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			driver.Stop()
		}()
	}
	wg.Wait()
	assert.True(t, driver.Stopped())
}

func TestDriverWithSystemClock(t *testing.T) {
	schedule, err := NewSchedule(time.Now().AddDate(0, 0, 1), "09:00", "11:00")
	require.NoError(t, err)

	sink := newRecordingSink()
	driver := NewDriver(schedule, sink, DriverConfig{TickInterval: 10 * time.Millisecond})
	driver.Start()

	first := sink.next(t)
	second := sink.next(t)
	driver.Stop()

	assert.Equal(t, PhaseNotStarted, first.State.Phase)
	assert.LessOrEqual(t, second.State.RemainingMs, first.State.RemainingMs)
}
