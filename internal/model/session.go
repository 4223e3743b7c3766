package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/exam-countdown/internal/countdown"
)

// Session is the single active countdown.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Exam      ExamInfo  `json:"exam"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Frame is one published countdown tick as sent to displays.
type Frame struct {
	SessionID     uuid.UUID           `json:"session_id"`
	Phase         countdown.Phase     `json:"phase"`
	Headline      string              `json:"headline"`
	Remaining     countdown.Remaining `json:"remaining"`
	RemainingMs   int64               `json:"remaining_ms"`
	WarningActive bool                `json:"warning_active"`
	Events        []countdown.Event   `json:"events,omitempty"`
	At            time.Time           `json:"at"`
}

// NewFrame converts a driver tick into a display frame.
func NewFrame(sessionID uuid.UUID, tick countdown.Tick) Frame {
	return Frame{
		SessionID:     sessionID,
		Phase:         tick.State.Phase,
		Headline:      tick.State.Headline(),
		Remaining:     tick.State.Remaining,
		RemainingMs:   tick.State.RemainingMs,
		WarningActive: tick.State.WarningActive,
		Events:        tick.Events,
		At:            tick.At,
	}
}

// SessionView is a session together with its latest frame.
type SessionView struct {
	Session
	Frame *Frame `json:"frame,omitempty"`
}

// LoggedEvent is an entry of the session event log.
type LoggedEvent struct {
	SessionID uuid.UUID           `json:"session_id"`
	Kind      countdown.EventKind `json:"kind"`
	At        time.Time           `json:"at"`
}
