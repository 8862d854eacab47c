package model

import (
	"time"

	"github.com/google/uuid"
)

// Mode enumerates the timed play modes.
type Mode string

const (
	QuickMode Mode = "Quick Mode"
	ProMode   Mode = "Pro Mode"
)

// Modes lists the selectable modes in display order.
var Modes = []Mode{QuickMode, ProMode}

// TimeLimitSeconds returns the session length for the mode, or 0 for an
// unknown mode.
func (m Mode) TimeLimitSeconds() int {
	switch m {
	case QuickMode:
		return 120
	case ProMode:
		return 300
	default:
		return 0
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m.TimeLimitSeconds() > 0
}

// Stage enumerates quiz session states.
type Stage string

const (
	StageSetup  Stage = "SETUP"
	StageQuiz   Stage = "QUIZ"
	StageResult Stage = "RESULT"
)

// Session is one player's quiz attempt.
// Invariant: Score + Wrong + Skipped == CurrentIndex.
type Session struct {
	ID               uuid.UUID  `json:"id"`
	Stage            Stage      `json:"stage"`
	Mode             Mode       `json:"mode,omitempty"`
	Topic            string     `json:"topic,omitempty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Questions        []Question `json:"questions"`
	CurrentIndex     int        `json:"current_index"`
	Score            int        `json:"score"`
	Wrong            int        `json:"wrong"`
	Skipped          int        `json:"skipped"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewSession returns an empty session in the Setup stage.
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Stage:     StageSetup,
		CreatedAt: now,
	}
}

// SessionView is what the player sees for a session at a point in time.
type SessionView struct {
	ID               uuid.UUID     `json:"id"`
	Stage            Stage         `json:"stage"`
	Mode             Mode          `json:"mode,omitempty"`
	Topic            string        `json:"topic,omitempty"`
	TimeLimitSeconds int           `json:"time_limit_seconds,omitempty"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Clock            string        `json:"clock,omitempty"`
	Progress         float64       `json:"progress"`
	Score            int           `json:"score"`
	Wrong            int           `json:"wrong"`
	Skipped          int           `json:"skipped"`
	Current          *QuestionView `json:"current,omitempty"`
	Result           *Result       `json:"result,omitempty"`
}

// ChooseModeRequest is the payload for picking a play mode.
type ChooseModeRequest struct {
	Mode Mode `json:"mode" binding:"required,quizmode"`
}

// StartQuizRequest is the payload for starting a quiz. Mode may be supplied
// here instead of a separate ChooseModeRequest.
type StartQuizRequest struct {
	Topic string `json:"topic" binding:"required,max=100"`
	Mode  Mode   `json:"mode" binding:"omitempty,quizmode"`
}

// SubmitAnswerRequest is the payload for answering the current question.
// An empty option submits with nothing selected and is graded wrong.
type SubmitAnswerRequest struct {
	Option string `json:"option" binding:"max=2000"`
}
