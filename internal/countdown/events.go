package countdown

import "time"

// EventKind identifies a one-shot countdown event.
type EventKind string

const (
	EventWarningThresholdCrossed EventKind = "warning_threshold_crossed"
	EventExamEnded               EventKind = "exam_ended"
)

// Event is a one-shot notification raised by Evaluate.
type Event struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
}

// OneShotFlags records which one-shot events a session has already raised.
// A new session must start from the zero value.
type OneShotFlags struct {
	WarningFired bool
	EndedFired   bool
}

// Reset clears every flag.
func (f *OneShotFlags) Reset() {
	*f = OneShotFlags{}
}
