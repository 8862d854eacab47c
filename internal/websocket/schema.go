package websocket

import "github.com/stemsi/aptitude-quiz/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSubmit Action = "submit"
	ActionSkip   Action = "skip"
	ActionPing   Action = "ping"
)

// Request is a single client message. Option is only read for submit.
type Request struct {
	Action Action `json:"action"`
	Option string `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState    Event = "state"
	EventTick     Event = "tick"
	EventFinished Event = "finished"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// StateResponse carries the full session view, sent on connect and after
// every submit or skip.
type StateResponse struct {
	Event   Event             `json:"event"`
	Session model.SessionView `json:"session"`
}

// TickResponse is the once-per-second countdown.
type TickResponse struct {
	Event            Event       `json:"event"`
	Stage            model.Stage `json:"stage"`
	RemainingSeconds int         `json:"remaining_seconds"`
	Clock            string      `json:"clock"`
}

// FinishedResponse is the last message before the server closes the stream.
type FinishedResponse struct {
	Event  Event        `json:"event"`
	Result model.Result `json:"result"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
