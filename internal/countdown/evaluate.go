package countdown

import "time"

// WarningThreshold is how close to the end an in-progress exam must be before
// the warning state is shown.
const WarningThreshold = 5 * time.Minute

var warningThresholdMs = WarningThreshold.Milliseconds()

// Evaluate derives the phase and remaining time of schedule at now, and
// returns the one-shot events that fire on this tick. flags is updated in
// place so that each event kind fires at most once per session; a nil flags
// is treated as a throwaway zero value.
//
// Time is compared at millisecond resolution. Reaching the start or end
// instant exactly counts as having crossed it.
func Evaluate(now time.Time, schedule ExamSchedule, flags *OneShotFlags) (PhaseState, []Event) {
	if flags == nil {
		flags = &OneShotFlags{}
	}
	now = now.Truncate(time.Millisecond)

	deltaToStart := schedule.StartInstant().Sub(now).Milliseconds()
	if deltaToStart > 0 {
		return PhaseState{
			Phase:       PhaseNotStarted,
			RemainingMs: deltaToStart,
			Remaining:   Breakdown(deltaToStart),
		}, nil
	}

	var events []Event
	deltaToEnd := schedule.EndInstant().Sub(now).Milliseconds()
	if deltaToEnd <= 0 {
		if !flags.EndedFired {
			flags.EndedFired = true
			events = append(events, Event{Kind: EventExamEnded, At: now})
		}
		return PhaseState{Phase: PhaseEnded}, events
	}

	state := PhaseState{
		Phase:       PhaseInProgress,
		RemainingMs: deltaToEnd,
		Remaining:   Breakdown(deltaToEnd),
	}
	if deltaToEnd <= warningThresholdMs && !flags.WarningFired {
		flags.WarningFired = true
		events = append(events, Event{Kind: EventWarningThresholdCrossed, At: now})
	}
	// The warning stays on for the rest of the exam once raised, even if the
	// wall clock is stepped backwards.
	state.WarningActive = flags.WarningFired
	return state, events
}
