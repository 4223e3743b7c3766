package websocket

import "github.com/stemsi/exam-countdown/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
	// ActionSnapshot asks for the latest frame to be re-sent.
	ActionSnapshot Action = "snapshot"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventTick  Event = "tick"
	EventIdle  Event = "idle"
	EventError Event = "error"
	EventPong  Event = "pong"
)

// TickResponse carries one countdown frame.
type TickResponse struct {
	Event Event       `json:"event"`
	Frame model.Frame `json:"frame"`
}

// IdleResponse tells the display that no countdown is running.
type IdleResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
