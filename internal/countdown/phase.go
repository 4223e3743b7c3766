package countdown

import (
	"fmt"
	"time"
)

// Phase is the position of "now" relative to an exam's start and end.
// Phases are ordered; a session only ever moves forward through them.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseEnded
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Headline returns the caption shown above the countdown digits.
func (p Phase) Headline() string {
	switch p {
	case PhaseInProgress:
		return "Time remaining"
	case PhaseEnded:
		return "Exam has ended"
	default:
		return "Time until exam starts"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_started":
		*p = PhaseNotStarted
	case "in_progress":
		*p = PhaseInProgress
	case "ended":
		*p = PhaseEnded
	default:
		return fmt.Errorf("unknown phase %q", string(text))
	}
	return nil
}

const (
	msPerSecond = int64(time.Second / time.Millisecond)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Remaining is a non-negative duration split into display units.
type Remaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Breakdown splits ms into days, hours, minutes and seconds, largest unit
// first, flooring each step. Negative input is treated as zero.
func Breakdown(ms int64) Remaining {
	if ms <= 0 {
		return Remaining{}
	}
	days := ms / msPerDay
	ms %= msPerDay
	hours := ms / msPerHour
	ms %= msPerHour
	minutes := ms / msPerMinute
	ms %= msPerMinute
	return Remaining{
		Days:    days,
		Hours:   hours,
		Minutes: minutes,
		Seconds: ms / msPerSecond,
	}
}

// Milliseconds reassembles the breakdown. The result is the original delta
// truncated to whole seconds.
func (r Remaining) Milliseconds() int64 {
	return r.Days*msPerDay + r.Hours*msPerHour + r.Minutes*msPerMinute + r.Seconds*msPerSecond
}

// Clock renders the breakdown as "DD:HH:MM:SS".
func (r Remaining) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// PhaseState is the derived view of one tick. It is recomputed every tick.
type PhaseState struct {
	Phase         Phase     `json:"phase"`
	RemainingMs   int64     `json:"remaining_ms"`
	Remaining     Remaining `json:"remaining"`
	WarningActive bool      `json:"warning_active"`
}

// Headline returns the caption for the state's phase.
func (s PhaseState) Headline() string {
	return s.Phase.Headline()
}
